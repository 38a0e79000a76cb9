package semiring

import (
	"cmp"

	"golang.org/x/exp/constraints"
)

var _ Semiring[int64] = Counting[int64]{}

// Counting is the integer sum-product semiring used by graph and counting queries: duplicate
// tuples add up, joined tuples multiply, multiplicities lift unchanged.
type Counting[W constraints.Integer] struct{}

// NewCounting returns the counting semiring over int64.
func NewCounting() Counting[int64] { return Counting[int64]{} }

func (Counting[W]) Zero() W                    { return 0 }
func (Counting[W]) Combine(a, b W) W           { return a + b }
func (Counting[W]) Multiply(a, b W) W          { return a * b }
func (Counting[W]) FromMultiplicity(n int64) W { return W(n) }
func (Counting[W]) Compare(a, b W) int         { return cmp.Compare(a, b) }
func (Counting[W]) Name() string               { return "counting" }

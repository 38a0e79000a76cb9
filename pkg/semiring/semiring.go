// Package semiring defines the weight algebra of factors.
//
// A Semiring interprets the weights attached to tuples: Combine merges the weights of tuples that
// become identical (the additive operation), Multiply merges the weights of tuples drawn from
// different joined factors, Zero is the identity of Combine and FromMultiplicity lifts a raw
// insert/delete multiplicity of the relational substrate into a weight.
//
// Implementations must keep Combine and Multiply commutative and associative, Zero must be the
// identity of Combine and FromMultiplicity(0) must equal Zero. These are contracts, they are not
// checked at runtime.
package semiring

import (
	"golang.org/x/exp/constraints"
)

// Semiring is the algebra over weights of type W.
type Semiring[W any] interface {
	// Zero is the additive identity.
	Zero() W
	// Combine merges weights of tuples that coincide.
	Combine(a, b W) W
	// Multiply merges weights of tuples joined from different factors.
	Multiply(a, b W) W
	// FromMultiplicity lifts a substrate multiplicity into a weight.
	FromMultiplicity(n int64) W
	// Compare is a total order on weights. It is used for grouping, deterministic output and
	// max-style aggregation, never for arithmetic.
	Compare(a, b W) int
	// Name identifies the semiring in logs and diagrams.
	Name() string
}

// Numeric is the set of weight types the built-in semirings are defined on.
type Numeric interface {
	constraints.Integer | constraints.Float
}

// IsZero reports whether w equals the zero of s under the total order of s.
func IsZero[W any](s Semiring[W], w W) bool {
	return s.Compare(w, s.Zero()) == 0
}

// Fold combines a list of weights, returning Zero for an empty list.
func Fold[W any](s Semiring[W], ws ...W) W {
	acc := s.Zero()
	for _, w := range ws {
		acc = s.Combine(acc, w)
	}
	return acc
}

func abs[W Numeric](w W) W {
	if w < 0 {
		return -w
	}
	return w
}

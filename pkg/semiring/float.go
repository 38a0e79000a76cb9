package semiring

import (
	"cmp"
	"math"

	"golang.org/x/exp/constraints"
)

var (
	_ Semiring[float64] = SumProduct[float64]{}
	_ Semiring[float64] = MaxProduct[float64]{}
)

// TotalOrderKey maps a float to a signed integer whose natural order is a total order on floats.
//
// The IEEE bit pattern is reinterpreted as a signed integer and, for negative numbers, every bit
// except the sign bit is flipped. The result is monotonic in the float value, orders -0 before +0
// and places NaNs at the extremes according to their sign bit. Use it for grouping and equality
// only; it does not participate in arithmetic.
func TotalOrderKey(f float64) int64 {
	k := int64(math.Float64bits(f))
	if k < 0 {
		k ^= math.MaxInt64
	}
	return k
}

// CompareFloats orders floats by TotalOrderKey.
func CompareFloats[W constraints.Float](a, b W) int {
	return cmp.Compare(TotalOrderKey(float64(a)), TotalOrderKey(float64(b)))
}

// SumProduct is the real sum-product semiring used for marginal-probability inference.
// Multiplicities are cast to floats.
type SumProduct[W constraints.Float] struct{}

// NewSumProduct returns the sum-product semiring over float64.
func NewSumProduct() SumProduct[float64] { return SumProduct[float64]{} }

func (SumProduct[W]) Zero() W                    { return 0 }
func (SumProduct[W]) Combine(a, b W) W           { return a + b }
func (SumProduct[W]) Multiply(a, b W) W          { return a * b }
func (SumProduct[W]) FromMultiplicity(n int64) W { return W(n) }
func (SumProduct[W]) Compare(a, b W) int         { return CompareFloats(a, b) }
func (SumProduct[W]) Name() string               { return "sum-product" }

// MaxProduct is the max-product semiring used for most-probable-explanation (MAP) inference:
// coinciding tuples keep the larger weight, joined tuples multiply. Multiplicities lift to their
// absolute value, so weights stay non-negative and Zero remains the identity of Combine.
type MaxProduct[W constraints.Float] struct{}

// NewMaxProduct returns the max-product semiring over float64.
func NewMaxProduct() MaxProduct[float64] { return MaxProduct[float64]{} }

func (MaxProduct[W]) Zero() W { return 0 }

func (MaxProduct[W]) Combine(a, b W) W {
	if CompareFloats(a, b) >= 0 {
		return a
	}
	return b
}

func (MaxProduct[W]) Multiply(a, b W) W          { return a * b }
func (MaxProduct[W]) FromMultiplicity(n int64) W { return abs(W(n)) }
func (MaxProduct[W]) Compare(a, b W) int         { return CompareFloats(a, b) }
func (MaxProduct[W]) Name() string               { return "max-product" }

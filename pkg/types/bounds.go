package types

import "math/big"

var (
	big1   = big.NewInt(1)
	big1e10 = big.NewInt(1e10)
)

// MinMax returns the inclusive bounds of a numeric type as signed
// math/big values, used for literal admission (spec.md §4.A
// from_literal) where the natural representation is a signed magnitude,
// not a two's-complement machine word. The backend's actual 256-bit
// wraparound arithmetic is a separate concern handled with
// github.com/holiman/uint256 in fold.go and pkg/optimizer, which operate
// on already-reduced machine words rather than on admission bounds.
func (t *Type) MinMax() (lo, hi *big.Int) {
	t.boundsPanic()
	if t.Kind == KindDecimal {
		return decimalMin(), decimalMax()
	}
	if !t.IsSigned {
		lo = big.NewInt(0)
		hi = new(big.Int).Lsh(big1, uint(t.Bits))
		hi.Sub(hi, big1)
		return lo, hi
	}
	hi = new(big.Int).Lsh(big1, uint(t.Bits-1))
	hi.Sub(hi, big1)
	lo = new(big.Int).Neg(new(big.Int).Lsh(big1, uint(t.Bits-1)))
	return lo, hi
}

func decimalMin() *big.Int {
	lo, _ := Int(128, true).MinMax()
	return new(big.Int).Mul(lo, big1e10)
}

func decimalMax() *big.Int {
	_, hi := Int(128, true).MinMax()
	return new(big.Int).Mul(hi, big1e10)
}

// InBounds reports whether v lies within t's representable signed range.
func (t *Type) InBounds(v *big.Int) bool {
	lo, hi := t.MinMax()
	return v.Cmp(lo) >= 0 && v.Cmp(hi) <= 0
}

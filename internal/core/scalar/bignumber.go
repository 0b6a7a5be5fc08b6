package scalar

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BigNumber is the huge-magnitude backend: a mantissa normalized to [1, 10)
// and a base-10 exponent. It survives magnitudes far beyond the float64 range
// (the exponent is an int64) at roughly 15 significant digits.
//
// NaN and Inf propagate through the mantissa. Sin, Cos, Acos and Atan2
// evaluate on the float64 narrowing, so they poison to NaN for values outside
// the float64 range. Adding values more than 18 orders of magnitude apart
// returns the larger operand unchanged.
type BigNumber struct {
	mantissa float64
	exp      int64
}

const bigNumberEpsilonExp = -12

// alignLimit is the exponent gap beyond which the smaller addend vanishes.
const alignLimit = 18

// NewBigNumber builds a normalized value mantissa * 10^exp.
func NewBigNumber(mantissa float64, exp int64) BigNumber {
	return normalizeBig(mantissa, exp)
}

// BigNumberFromFloat converts an IEEE double.
func BigNumberFromFloat(f float64) BigNumber {
	return normalizeBig(f, 0)
}

func normalizeBig(m float64, e int64) BigNumber {
	if m == 0 {
		return BigNumber{}
	}
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return BigNumber{mantissa: m}
	}
	if abs := math.Abs(m); abs >= 10 || abs < 1 {
		shift := int64(math.Floor(math.Log10(abs)))
		m /= math.Pow(10, float64(shift))
		e += shift
	}
	// log10 rounding can leave the mantissa one step outside [1, 10)
	if abs := math.Abs(m); abs >= 10 {
		m /= 10
		e++
	} else if abs < 1 {
		m *= 10
		e--
	}
	return BigNumber{m, e}
}

// Mantissa returns the normalized mantissa in [1, 10), zero for zero.
func (a BigNumber) Mantissa() float64 { return a.mantissa }

// Exponent returns the base-10 exponent.
func (a BigNumber) Exponent() int64 { return a.exp }

func (a BigNumber) finite() bool {
	return !math.IsNaN(a.mantissa) && !math.IsInf(a.mantissa, 0)
}

func (a BigNumber) Add(b BigNumber) BigNumber {
	if !a.finite() || !b.finite() {
		return normalizeBig(a.mantissa+b.mantissa, 0)
	}
	if a.mantissa == 0 {
		return b
	}
	if b.mantissa == 0 {
		return a
	}
	if a.exp < b.exp {
		a, b = b, a
	}
	shift := a.exp - b.exp
	if shift > alignLimit {
		return a
	}
	return normalizeBig(a.mantissa+b.mantissa/math.Pow(10, float64(shift)), a.exp)
}

func (a BigNumber) Sub(b BigNumber) BigNumber { return a.Add(b.Neg()) }

func (a BigNumber) Mul(b BigNumber) BigNumber {
	if !a.finite() || !b.finite() {
		return normalizeBig(a.mantissa*b.mantissa, 0)
	}
	if a.mantissa == 0 || b.mantissa == 0 {
		return BigNumber{}
	}
	return normalizeBig(a.mantissa*b.mantissa, a.exp+b.exp)
}

func (a BigNumber) Div(b BigNumber) BigNumber {
	if !a.finite() || !b.finite() || b.mantissa == 0 {
		return normalizeBig(a.mantissa/b.mantissa, 0)
	}
	if a.mantissa == 0 {
		return BigNumber{}
	}
	return normalizeBig(a.mantissa/b.mantissa, a.exp-b.exp)
}

func (a BigNumber) Neg() BigNumber {
	return BigNumber{-a.mantissa, a.exp}
}

func (a BigNumber) Abs() BigNumber {
	return BigNumber{math.Abs(a.mantissa), a.exp}
}

func (a BigNumber) Sqrt() BigNumber {
	if !a.finite() || a.mantissa < 0 {
		return BigNumber{mantissa: math.Sqrt(a.mantissa)}
	}
	if a.mantissa == 0 {
		return BigNumber{}
	}
	if a.exp&1 == 0 {
		return normalizeBig(math.Sqrt(a.mantissa), a.exp/2)
	}
	return normalizeBig(math.Sqrt(a.mantissa*10), (a.exp-1)/2)
}

// Pow works in log10 space so exponents keep their full range.
func (a BigNumber) Pow(b BigNumber) BigNumber {
	p := b.Float64()
	switch {
	case !a.finite() || math.IsNaN(p) || math.IsInf(p, 0):
		return normalizeBig(math.Pow(a.mantissa, p), 0)
	case a.mantissa == 0:
		return normalizeBig(math.Pow(0, p), 0)
	case a.mantissa < 0:
		ip, frac := math.Modf(p)
		if frac != 0 {
			return BigNumber{mantissa: math.NaN()}
		}
		r := a.Abs().Pow(b)
		if int64(ip)&1 == 1 {
			return r.Neg()
		}
		return r
	}
	t := p * (math.Log10(a.mantissa) + float64(a.exp))
	if math.IsInf(t, 0) {
		return BigNumber{mantissa: math.Inf(int(math.Copysign(1, t)))}
	}
	ipart, frac := math.Modf(t)
	return normalizeBig(math.Pow(10, frac), int64(ipart))
}

func (a BigNumber) Sin() BigNumber  { return BigNumberFromFloat(math.Sin(a.Float64())) }
func (a BigNumber) Cos() BigNumber  { return BigNumberFromFloat(math.Cos(a.Float64())) }
func (a BigNumber) Acos() BigNumber { return BigNumberFromFloat(math.Acos(a.Float64())) }

func (a BigNumber) Atan2(x BigNumber) BigNumber {
	return BigNumberFromFloat(math.Atan2(a.Float64(), x.Float64()))
}

func (a BigNumber) Cmp(b BigNumber) int {
	as, bs := signOf(a.mantissa), signOf(b.mantissa)
	if as != bs {
		if as < bs {
			return -1
		}
		return 1
	}
	if as == 0 {
		return 0
	}
	if a.exp != b.exp {
		bigger := a.exp > b.exp
		if bigger == (as > 0) {
			return 1
		}
		return -1
	}
	switch {
	case a.mantissa < b.mantissa:
		return -1
	case a.mantissa > b.mantissa:
		return 1
	default:
		return 0
	}
}

func signOf(f float64) int {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	default:
		return 0
	}
}

func (a BigNumber) IsZero() bool { return a.mantissa == 0 }

func (a BigNumber) IsNearlyZero() bool {
	return a.Abs().Cmp(a.Epsilon()) <= 0
}

func (a BigNumber) IsNearlyEqual(b BigNumber) bool {
	eps := a.Epsilon()
	diff := a.Sub(b).Abs()
	if diff.Cmp(eps) <= 0 {
		return true
	}
	return diff.Cmp(Max(a.Abs(), b.Abs()).Mul(eps)) <= 0
}

func (a BigNumber) Float64() float64 {
	if a.mantissa == 0 || !a.finite() {
		return a.mantissa
	}
	return a.mantissa * math.Pow(10, float64(a.exp))
}

func (a BigNumber) String() string {
	if a.mantissa == 0 || !a.finite() {
		return strconv.FormatFloat(a.mantissa, 'g', -1, 64)
	}
	m := strconv.FormatFloat(a.mantissa, 'f', -1, 64)
	return m + "e" + strconv.FormatInt(a.exp, 10)
}

func (BigNumber) Zero() BigNumber    { return BigNumber{} }
func (BigNumber) One() BigNumber     { return BigNumber{1, 0} }
func (BigNumber) Two() BigNumber     { return BigNumber{2, 0} }
func (BigNumber) Pi() BigNumber      { return BigNumber{math.Pi, 0} }
func (BigNumber) Tau() BigNumber     { return normalizeBig(2*math.Pi, 0) }
func (BigNumber) Epsilon() BigNumber { return BigNumber{1, bigNumberEpsilonExp} }

func (BigNumber) FromFloat64(f float64) BigNumber { return BigNumberFromFloat(f) }

func (BigNumber) FromString(s string) (BigNumber, error) {
	// split mantissa and exponent apart so exponents beyond the float64
	// range survive and normalized literals round-trip exactly
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		m, err := strconv.ParseFloat(s[:i], 64)
		if err != nil {
			return BigNumber{}, fmt.Errorf("scalar: parse bignumber mantissa %q: %w", s, err)
		}
		e, err := strconv.ParseInt(s[i+1:], 10, 64)
		if err != nil {
			return BigNumber{}, fmt.Errorf("scalar: parse bignumber exponent %q: %w", s, err)
		}
		return normalizeBig(m, e), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return BigNumber{}, fmt.Errorf("scalar: parse bignumber %q: %w", s, err)
	}
	return BigNumberFromFloat(f), nil
}

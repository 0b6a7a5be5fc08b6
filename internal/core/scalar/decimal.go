package scalar

import (
	"fmt"
	"math"
	"math/big"
)

// DefaultDecimalPrecision is the mantissa width in bits used when no operand
// carries a higher one. 128 bits hold roughly 38 decimal digits.
const DefaultDecimalPrecision uint = 128

// bitsPerDecimalDigit sizes mantissa bits from decimal digits when parsing.
const bitsPerDecimalDigit = 3.33

// Decimal is the arbitrary-precision backend over math/big. The zero value is
// a valid zero. Binary operations carry the larger operand precision, so
// mixing precisions widens rather than truncates.
//
// big.Float has no NaN: operations whose IEEE result would be NaN (0/0,
// Inf-Inf, 0*Inf, Sqrt of a negative) saturate to zero, and x/0 for x != 0
// yields +/-Inf. Sin, Cos, Acos, Atan2 and non-integer Pow are evaluated at
// IEEE double precision and widened back; Pi, Tau and integer powers are
// carried at the full working precision.
type Decimal struct {
	val *big.Float
}

const decPiLiteral = "3.14159265358979323846264338327950288419716939937510582097494459230781640629"

var (
	decZero    = new(big.Float).SetPrec(DefaultDecimalPrecision)
	decPi      = mustDecimalLiteral(decPiLiteral, 256)
	decEpsilon = mustDecimalLiteral("1e-24", DefaultDecimalPrecision)
)

func mustDecimalLiteral(s string, prec uint) *big.Float {
	f, _, err := big.ParseFloat(s, 10, prec, big.ToNearestEven)
	if err != nil {
		panic(fmt.Sprintf("scalar: bad decimal literal %q: %v", s, err))
	}
	return f
}

// NewDecimal parses a decimal literal, sizing the precision to hold every
// digit of the literal (at least DefaultDecimalPrecision).
func NewDecimal(s string) (Decimal, error) {
	return NewDecimalWithPrecision(s, precisionForLiteral(s))
}

// NewDecimalWithPrecision parses a decimal literal at an explicit mantissa
// width in bits.
func NewDecimalWithPrecision(s string, prec uint) (Decimal, error) {
	f, _, err := big.ParseFloat(s, 10, prec, big.ToNearestEven)
	if err != nil {
		return Decimal{}, fmt.Errorf("scalar: parse decimal %q: %w", s, err)
	}
	return Decimal{f}, nil
}

// DecimalFromFloat widens an IEEE double. NaN saturates to zero.
func DecimalFromFloat(f float64) Decimal {
	if math.IsNaN(f) {
		return Decimal{}
	}
	return Decimal{new(big.Float).SetPrec(DefaultDecimalPrecision).SetFloat64(f)}
}

func precisionForLiteral(s string) uint {
	digits := 0
	for _, r := range s {
		if r == 'e' || r == 'E' {
			break
		}
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	prec := uint(float64(digits)*bitsPerDecimalDigit) + 8
	if prec < DefaultDecimalPrecision {
		prec = DefaultDecimalPrecision
	}
	return prec
}

// ref never returns nil; the shared zero is read-only by convention since
// every operation allocates a fresh result.
func (a Decimal) ref() *big.Float {
	if a.val == nil {
		return decZero
	}
	return a.val
}

func (a Decimal) prec() uint {
	if a.val == nil || a.val.Prec() == 0 {
		return DefaultDecimalPrecision
	}
	return a.val.Prec()
}

func decResultPrec(a, b Decimal) uint {
	ap, bp := a.prec(), b.prec()
	if ap >= bp {
		return ap
	}
	return bp
}

func (a Decimal) Add(b Decimal) Decimal {
	x, y := a.ref(), b.ref()
	if x.IsInf() && y.IsInf() && x.Signbit() != y.Signbit() {
		return Decimal{}
	}
	return Decimal{new(big.Float).SetPrec(decResultPrec(a, b)).Add(x, y)}
}

func (a Decimal) Sub(b Decimal) Decimal {
	x, y := a.ref(), b.ref()
	if x.IsInf() && y.IsInf() && x.Signbit() == y.Signbit() {
		return Decimal{}
	}
	return Decimal{new(big.Float).SetPrec(decResultPrec(a, b)).Sub(x, y)}
}

func (a Decimal) Mul(b Decimal) Decimal {
	x, y := a.ref(), b.ref()
	if (x.Sign() == 0 && y.IsInf()) || (y.Sign() == 0 && x.IsInf()) {
		return Decimal{}
	}
	return Decimal{new(big.Float).SetPrec(decResultPrec(a, b)).Mul(x, y)}
}

func (a Decimal) Div(b Decimal) Decimal {
	x, y := a.ref(), b.ref()
	prec := decResultPrec(a, b)
	if y.Sign() == 0 {
		if x.Sign() == 0 {
			return Decimal{}
		}
		return Decimal{new(big.Float).SetPrec(prec).SetInf(x.Sign() < 0)}
	}
	if x.IsInf() && y.IsInf() {
		return Decimal{}
	}
	return Decimal{new(big.Float).SetPrec(prec).Quo(x, y)}
}

func (a Decimal) Neg() Decimal {
	return Decimal{new(big.Float).SetPrec(a.prec()).Neg(a.ref())}
}

func (a Decimal) Abs() Decimal {
	return Decimal{new(big.Float).SetPrec(a.prec()).Abs(a.ref())}
}

func (a Decimal) Sqrt() Decimal {
	x := a.ref()
	if x.Sign() < 0 {
		return Decimal{}
	}
	return Decimal{new(big.Float).SetPrec(a.prec()).Sqrt(x)}
}

// Pow uses exact binary exponentiation for integer exponents up to |512| and
// falls back to an IEEE double evaluation otherwise.
func (a Decimal) Pow(b Decimal) Decimal {
	if n, acc := b.ref().Int64(); acc == big.Exact && n >= -512 && n <= 512 {
		return a.powInt(n)
	}
	return a.pivot(math.Pow(a.Float64(), b.Float64()))
}

func (a Decimal) powInt(n int64) Decimal {
	prec := a.prec()
	result := new(big.Float).SetPrec(prec).SetInt64(1)
	base := new(big.Float).SetPrec(prec).Set(a.ref())
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		if n&1 == 1 {
			result.Mul(result, base)
		}
		base.Mul(base, base)
		n >>= 1
	}
	if neg {
		if result.Sign() == 0 {
			return Decimal{new(big.Float).SetPrec(prec).SetInf(false)}
		}
		one := new(big.Float).SetPrec(prec).SetInt64(1)
		result = new(big.Float).SetPrec(prec).Quo(one, result)
	}
	return Decimal{result}
}

func (a Decimal) pivot(f float64) Decimal {
	if math.IsNaN(f) {
		return Decimal{}
	}
	return Decimal{new(big.Float).SetPrec(a.prec()).SetFloat64(f)}
}

func (a Decimal) Sin() Decimal  { return a.pivot(math.Sin(a.Float64())) }
func (a Decimal) Cos() Decimal  { return a.pivot(math.Cos(a.Float64())) }
func (a Decimal) Acos() Decimal { return a.pivot(math.Acos(a.Float64())) }

func (a Decimal) Atan2(x Decimal) Decimal {
	return a.pivot(math.Atan2(a.Float64(), x.Float64()))
}

func (a Decimal) Cmp(b Decimal) int { return a.ref().Cmp(b.ref()) }

func (a Decimal) IsZero() bool {
	return a.val == nil || a.val.Sign() == 0
}

func (a Decimal) IsNearlyZero() bool {
	return a.Abs().Cmp(a.Epsilon()) <= 0
}

func (a Decimal) IsNearlyEqual(b Decimal) bool {
	eps := a.Epsilon()
	diff := a.Sub(b).Abs()
	if diff.Cmp(eps) <= 0 {
		return true
	}
	return diff.Cmp(Max(a.Abs(), b.Abs()).Mul(eps)) <= 0
}

func (a Decimal) Float64() float64 {
	f, _ := a.ref().Float64()
	return f
}

func (a Decimal) String() string {
	return a.ref().Text('g', -1)
}

func (Decimal) Zero() Decimal { return Decimal{} }

func (a Decimal) One() Decimal {
	return Decimal{new(big.Float).SetPrec(a.prec()).SetInt64(1)}
}

func (a Decimal) Two() Decimal {
	return Decimal{new(big.Float).SetPrec(a.prec()).SetInt64(2)}
}

func (a Decimal) Pi() Decimal {
	return Decimal{new(big.Float).SetPrec(a.prec()).Set(decPi)}
}

func (a Decimal) Tau() Decimal {
	pi := new(big.Float).SetPrec(a.prec()).Set(decPi)
	return Decimal{pi.Add(pi, pi)}
}

func (a Decimal) Epsilon() Decimal {
	return Decimal{new(big.Float).SetPrec(a.prec()).Set(decEpsilon)}
}

func (a Decimal) FromFloat64(f float64) Decimal {
	if math.IsNaN(f) {
		return Decimal{}
	}
	return Decimal{new(big.Float).SetPrec(a.prec()).SetFloat64(f)}
}

// FromString parses at the receiver's precision (DefaultDecimalPrecision for
// the zero value). String renders the minimal digits that re-read exactly at
// the value's own precision, so String/FromString round-trip exactly when the
// precisions match. Use NewDecimal to widen from long literals instead.
func (a Decimal) FromString(s string) (Decimal, error) {
	return NewDecimalWithPrecision(s, a.prec())
}

// Precision reports the mantissa width in bits.
func (a Decimal) Precision() uint { return a.prec() }

// Package scalar defines the numeric contract the spatial and geometric
// packages are written against, together with the interchangeable backends:
// Float32, Float64, arbitrary-precision Decimal, and huge-magnitude BigNumber.
package scalar

// Scalar is the self-referential numeric contract. Every operation is pure:
// values are never mutated, results are always fresh values.
//
// Degenerate inputs (division by zero, square roots of negatives) propagate
// the representation's NaN/Inf analog where one exists rather than panicking.
// Backends without such an analog document their saturation policy. Callers
// that must not see poisoned values guard with IsZero or IsNearlyZero first.
//
// The constant methods (Zero, One, Two, Pi, Tau, Epsilon) and the entry
// points (FromFloat64, FromString) are callable on the zero value, so generic
// code can obtain constants with nothing but the type parameter.
type Scalar[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T
	Neg() T
	Abs() T

	Sqrt() T
	// Pow returns the receiver raised to the given power.
	Pow(T) T
	Sin() T
	Cos() T
	Acos() T
	// Atan2 treats the receiver as y and the argument as x.
	Atan2(T) T

	// Cmp returns -1, 0 or +1 for less, equal, greater.
	Cmp(T) int
	IsZero() bool
	// IsNearlyZero reports |v| <= Epsilon.
	IsNearlyZero() bool
	// IsNearlyEqual reports near-equality relative to the larger magnitude:
	// |a-b| <= Epsilon for values in the near-zero band, otherwise
	// |a-b| <= Epsilon * max(|a|, |b|).
	IsNearlyEqual(T) bool

	// Float64 narrows to IEEE double precision. The narrowing is lossy for
	// Decimal beyond 53 mantissa bits and saturates to +/-Inf for BigNumber
	// magnitudes outside the float64 range.
	Float64() float64
	// String renders a plain or scientific decimal literal that FromString
	// re-reads exactly.
	String() string

	Zero() T
	One() T
	Two() T
	Pi() T
	Tau() T
	Epsilon() T
	FromFloat64(float64) T
	FromString(string) (T, error)
}

// FromFloat builds a T from an IEEE double using only the type parameter.
func FromFloat[T Scalar[T]](f float64) T {
	var z T
	return z.FromFloat64(f)
}

// Parse builds a T from a decimal literal using only the type parameter.
func Parse[T Scalar[T]](s string) (T, error) {
	var z T
	return z.FromString(s)
}

// Zero returns the additive identity of T.
func Zero[T Scalar[T]]() T {
	var z T
	return z.Zero()
}

// One returns the multiplicative identity of T.
func One[T Scalar[T]]() T {
	var z T
	return z.One()
}

// Two returns 2 in T.
func Two[T Scalar[T]]() T {
	var z T
	return z.Two()
}

// Pi returns the circle constant in T at the backend's working precision.
func Pi[T Scalar[T]]() T {
	var z T
	return z.Pi()
}

// Tau returns 2*Pi in T.
func Tau[T Scalar[T]]() T {
	var z T
	return z.Tau()
}

// Min returns the smaller of a and b.
func Min[T Scalar[T]](a, b T) T {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[T Scalar[T]](a, b T) T {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// Clamp limits v to [lo, hi].
func Clamp[T Scalar[T]](v, lo, hi T) T {
	if v.Cmp(lo) < 0 {
		return lo
	}
	if v.Cmp(hi) > 0 {
		return hi
	}
	return v
}

package scalar

import (
	"math"
	"testing"
)

func testContract[T Scalar[T]](t *testing.T) {
	t.Helper()

	two := FromFloat[T](2)
	three := FromFloat[T](3)

	if got := two.Add(three); !got.IsNearlyEqual(FromFloat[T](5)) {
		t.Errorf("2+3 = %s, want 5", got.String())
	}
	if got := two.Sub(three); !got.IsNearlyEqual(FromFloat[T](-1)) {
		t.Errorf("2-3 = %s, want -1", got.String())
	}
	if got := two.Mul(three); !got.IsNearlyEqual(FromFloat[T](6)) {
		t.Errorf("2*3 = %s, want 6", got.String())
	}
	if got := FromFloat[T](10).Div(FromFloat[T](4)); !got.IsNearlyEqual(FromFloat[T](2.5)) {
		t.Errorf("10/4 = %s, want 2.5", got.String())
	}
	if got := two.Neg().Add(two); !got.IsNearlyZero() {
		t.Errorf("-2+2 = %s, want 0", got.String())
	}
	if got := FromFloat[T](-3).Abs(); !got.IsNearlyEqual(three) {
		t.Errorf("abs(-3) = %s, want 3", got.String())
	}

	if got := FromFloat[T](9).Sqrt(); !got.IsNearlyEqual(three) {
		t.Errorf("sqrt(9) = %s, want 3", got.String())
	}
	if got := two.Sqrt().Mul(two.Sqrt()); !got.IsNearlyEqual(two) {
		t.Errorf("sqrt(2)^2 = %s, want 2", got.String())
	}
	if got := two.Pow(FromFloat[T](10)); !got.IsNearlyEqual(FromFloat[T](1024)) {
		t.Errorf("2^10 = %s, want 1024", got.String())
	}

	zero := Zero[T]()
	one := One[T]()
	if got := zero.Sin(); !got.IsNearlyZero() {
		t.Errorf("sin(0) = %s, want 0", got.String())
	}
	if got := zero.Cos(); !got.IsNearlyEqual(one) {
		t.Errorf("cos(0) = %s, want 1", got.String())
	}
	if got := one.Acos(); !got.IsNearlyZero() {
		t.Errorf("acos(1) = %s, want 0", got.String())
	}
	// trig precision is bounded by the IEEE double evaluation some backends
	// pivot through, so compare in float64 space
	halfPi := Pi[T]().Div(Two[T]())
	if diff := one.Atan2(zero).Sub(halfPi).Abs().Float64(); diff > 1e-9 {
		t.Errorf("atan2(1,0) is off pi/2 by %v", diff)
	}
	if !Pi[T]().Add(Pi[T]()).IsNearlyEqual(Tau[T]()) {
		t.Errorf("pi+pi should equal tau")
	}

	if got := two.Cmp(three); got != -1 {
		t.Errorf("cmp(2,3) = %d, want -1", got)
	}
	if got := three.Cmp(two); got != 1 {
		t.Errorf("cmp(3,2) = %d, want 1", got)
	}
	if got := two.Cmp(FromFloat[T](2)); got != 0 {
		t.Errorf("cmp(2,2) = %d, want 0", got)
	}
	if got := FromFloat[T](-100).Cmp(FromFloat[T](-2)); got != -1 {
		t.Errorf("cmp(-100,-2) = %d, want -1", got)
	}

	if !zero.IsZero() {
		t.Error("zero value should be zero")
	}
	if one.IsZero() || one.IsNearlyZero() {
		t.Error("one should not be zero")
	}
}

func TestContractFloat32(t *testing.T)   { testContract[Float32](t) }
func TestContractFloat64(t *testing.T)   { testContract[Float64](t) }
func TestContractDecimal(t *testing.T)   { testContract[Decimal](t) }
func TestContractBigNumber(t *testing.T) { testContract[BigNumber](t) }

// Near-equality is relative to the larger magnitude, with an absolute band
// around zero.
func testRelativeEpsilon[T Scalar[T]](t *testing.T) {
	t.Helper()

	large := FromFloat[T](1e6)
	eps := Zero[T]().Epsilon()
	one := One[T]()
	two := Two[T]()

	near := large.Mul(one.Add(eps.Div(two)))
	if !large.IsNearlyEqual(near) {
		t.Errorf("%s and %s should be nearly equal", large.String(), near.String())
	}

	far := large.Mul(one.Add(eps.Mul(FromFloat[T](4))))
	if large.IsNearlyEqual(far) {
		t.Errorf("%s and %s should not be nearly equal", large.String(), far.String())
	}

	if !Zero[T]().IsNearlyEqual(eps.Div(two)) {
		t.Error("half-epsilon should be nearly zero")
	}
}

func TestRelativeEpsilonFloat32(t *testing.T)   { testRelativeEpsilon[Float32](t) }
func TestRelativeEpsilonFloat64(t *testing.T)   { testRelativeEpsilon[Float64](t) }
func TestRelativeEpsilonDecimal(t *testing.T)   { testRelativeEpsilon[Decimal](t) }
func TestRelativeEpsilonBigNumber(t *testing.T) { testRelativeEpsilon[BigNumber](t) }

func testStringRoundTrip[T Scalar[T]](t *testing.T) {
	t.Helper()

	for _, f := range []float64{0, 1, -2.5, 0.125, 100000, 12345.6789} {
		v := FromFloat[T](f)
		back, err := Parse[T](v.String())
		if err != nil {
			t.Fatalf("parse %q: %v", v.String(), err)
		}
		if back.Cmp(v) != 0 {
			t.Errorf("round trip of %v: got %s, want %s", f, back.String(), v.String())
		}
	}
}

func TestStringRoundTripFloat32(t *testing.T)   { testStringRoundTrip[Float32](t) }
func TestStringRoundTripFloat64(t *testing.T)   { testStringRoundTrip[Float64](t) }
func TestStringRoundTripDecimal(t *testing.T)   { testStringRoundTrip[Decimal](t) }
func TestStringRoundTripBigNumber(t *testing.T) { testStringRoundTrip[BigNumber](t) }

func TestMinMaxClamp(t *testing.T) {
	a, b := Float64(2), Float64(3)
	if Min(a, b) != a {
		t.Error("min(2,3) should be 2")
	}
	if Max(a, b) != b {
		t.Error("max(2,3) should be 3")
	}
	if got := Clamp(Float64(5), Float64(0), Float64(2)); got != 2 {
		t.Errorf("clamp(5,0,2) = %v, want 2", got)
	}
	if got := Clamp(Float64(-5), Float64(0), Float64(2)); got != 0 {
		t.Errorf("clamp(-5,0,2) = %v, want 0", got)
	}
	if got := Clamp(Float64(1), Float64(0), Float64(2)); got != 1 {
		t.Errorf("clamp(1,0,2) = %v, want 1", got)
	}
}

func TestFloatDegenerates(t *testing.T) {
	var zero Float64
	if got := float64(One[Float64]().Div(zero)); !math.IsInf(got, 1) {
		t.Errorf("1/0 = %v, want +Inf", got)
	}
	if got := float64(zero.Div(zero)); !math.IsNaN(got) {
		t.Errorf("0/0 = %v, want NaN", got)
	}
	if got := float64(Float64(-1).Sqrt()); !math.IsNaN(got) {
		t.Errorf("sqrt(-1) = %v, want NaN", got)
	}
}

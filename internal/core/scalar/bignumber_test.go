package scalar

import (
	"math"
	"testing"
)

func TestBigNumberNormalization(t *testing.T) {
	tests := []struct {
		mantissa float64
		exp      int64
		wantM    float64
		wantE    int64
	}{
		{4200, -2, 4.2, 1},
		{0.15, 0, 1.5, -1},
		{1, 0, 1, 0},
		{-250, 0, -2.5, 2},
		{0, 5, 0, 0},
	}
	for _, tc := range tests {
		got := NewBigNumber(tc.mantissa, tc.exp)
		if math.Abs(got.Mantissa()-tc.wantM) > 1e-12 || got.Exponent() != tc.wantE {
			t.Errorf("normalize(%v, %d) = {%v, %d}, want {%v, %d}",
				tc.mantissa, tc.exp, got.Mantissa(), got.Exponent(), tc.wantM, tc.wantE)
		}
	}
}

func TestBigNumberBeyondFloat64Range(t *testing.T) {
	huge, err := Parse[BigNumber]("1.5e400")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := huge.Float64(); !math.IsInf(got, 1) {
		t.Errorf("narrowing 1.5e400 = %v, want +Inf saturation", got)
	}

	sq := huge.Mul(huge)
	if sq.Exponent() != 800 || math.Abs(sq.Mantissa()-2.25) > 1e-12 {
		t.Errorf("(1.5e400)^2 = {%v, %d}, want {2.25, 800}", sq.Mantissa(), sq.Exponent())
	}

	root := sq.Sqrt()
	if !root.IsNearlyEqual(huge) {
		t.Errorf("sqrt back = %s, want %s", root.String(), huge.String())
	}
}

func TestBigNumberAddAlignment(t *testing.T) {
	a := NewBigNumber(1, 20)
	b := One[BigNumber]()
	if got := a.Add(b); got.Cmp(a) != 0 {
		t.Errorf("1e20 + 1 = %s, the far smaller addend should vanish", got.String())
	}

	c := NewBigNumber(1, 2).Add(NewBigNumber(5, 1))
	if want := NewBigNumber(1.5, 2); !c.IsNearlyEqual(want) {
		t.Errorf("100 + 50 = %s, want 150", c.String())
	}
}

func TestBigNumberPowLogSpace(t *testing.T) {
	got := FromFloat[BigNumber](10).Pow(FromFloat[BigNumber](1000))
	if got.Exponent() != 1000 || math.Abs(got.Mantissa()-1) > 1e-9 {
		t.Errorf("10^1000 = {%v, %d}, want {1, 1000}", got.Mantissa(), got.Exponent())
	}

	neg := FromFloat[BigNumber](-2).Pow(FromFloat[BigNumber](3))
	if !neg.IsNearlyEqual(FromFloat[BigNumber](-8)) {
		t.Errorf("(-2)^3 = %s, want -8", neg.String())
	}

	nan := FromFloat[BigNumber](-2).Pow(FromFloat[BigNumber](0.5))
	if !math.IsNaN(nan.Mantissa()) {
		t.Errorf("(-2)^0.5 = %s, want NaN", nan.String())
	}
}

func TestBigNumberSqrtOddExponent(t *testing.T) {
	v := NewBigNumber(4, 5)
	want := BigNumberFromFloat(math.Sqrt(4e5))
	if got := v.Sqrt(); !got.IsNearlyEqual(want) {
		t.Errorf("sqrt(4e5) = %s, want %s", got.String(), want.String())
	}
}

func TestBigNumberCmpAcrossMagnitudes(t *testing.T) {
	if got := NewBigNumber(-1, 300).Cmp(NewBigNumber(-1, 2)); got != -1 {
		t.Errorf("-1e300 vs -1e2 = %d, want -1", got)
	}
	if got := NewBigNumber(1, -300).Cmp(Zero[BigNumber]()); got != 1 {
		t.Errorf("1e-300 vs 0 = %d, want 1", got)
	}
	if got := NewBigNumber(2, 10).Cmp(NewBigNumber(3, 10)); got != -1 {
		t.Errorf("2e10 vs 3e10 = %d, want -1", got)
	}
}

func TestBigNumberStringRoundTripHuge(t *testing.T) {
	v := NewBigNumber(1.5, 400)
	back, err := Parse[BigNumber](v.String())
	if err != nil {
		t.Fatalf("parse %q: %v", v.String(), err)
	}
	if back.Cmp(v) != 0 {
		t.Errorf("round trip %q = %s", v.String(), back.String())
	}
}

func TestBigNumberDegenerates(t *testing.T) {
	zero := Zero[BigNumber]()
	one := One[BigNumber]()

	if got := one.Div(zero); !math.IsInf(got.Mantissa(), 1) {
		t.Errorf("1/0 mantissa = %v, want +Inf", got.Mantissa())
	}
	if got := zero.Div(zero); !math.IsNaN(got.Mantissa()) {
		t.Errorf("0/0 mantissa = %v, want NaN", got.Mantissa())
	}
	if got := one.Neg().Sqrt(); !math.IsNaN(got.Mantissa()) {
		t.Errorf("sqrt(-1) mantissa = %v, want NaN", got.Mantissa())
	}
}

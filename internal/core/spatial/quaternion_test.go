package spatial

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/num/quat"

	"github.com/geomsync/geomsync/internal/core/scalar"
)

func qAxisAngle(x, y, z, angle float64) Quaternion[f64] {
	return QuaternionFromAxisAngle(v3(x, y, z).Normalize(), scalar.Float64(angle))
}

func TestQuaternionIdentity(t *testing.T) {
	id := QuaternionIdentity[f64]()
	if !id.IsIdentity() {
		t.Fatal("identity is not identity")
	}
	v := v3(1, -2, 3)
	if got := id.Transform(v); !got.NearlyEquals(v) {
		t.Errorf("identity transform = %s, want %s", got, v)
	}
}

func TestQuaternionAxisAngleRoundTrip(t *testing.T) {
	axis := v3(1, 2, 3).Normalize()
	q := QuaternionFromAxisAngle(axis, scalar.Float64(1.2))

	gotAxis, gotAngle := q.ToAxisAngle()
	if !gotAxis.NearlyEquals(axis) {
		t.Errorf("axis = %s, want %s", gotAxis, axis)
	}
	if !gotAngle.IsNearlyEqual(scalar.Float64(1.2)) {
		t.Errorf("angle = %s, want 1.2", gotAngle)
	}

	// the zero rotation has no meaningful axis and reports a default one
	if axis, angle := QuaternionIdentity[f64]().ToAxisAngle(); !angle.IsNearlyZero() || !axis.NearlyEquals(UnitX[f64]()) {
		t.Errorf("identity axis-angle = %s, %s", axis, angle)
	}
}

func TestQuaternionMulAppliesRightFirst(t *testing.T) {
	a := qAxisAngle(1, 0, 0, math.Pi/2)
	b := qAxisAngle(0, 1, 0, math.Pi/4)
	v := v3(0.5, -1, 2)

	if got, want := a.Mul(b).Transform(v), a.Transform(b.Transform(v)); !got.NearlyEquals(want) {
		t.Errorf("a*b transform = %s, want %s", got, want)
	}
	if got, want := a.Concatenate(b).Transform(v), b.Transform(a.Transform(v)); !got.NearlyEquals(want) {
		t.Errorf("concatenate transform = %s, want %s", got, want)
	}
}

func TestQuaternionInverse(t *testing.T) {
	q := qAxisAngle(2, -1, 4, 0.9)
	if got := q.Mul(q.Inverse()); !got.NearlyEquals(QuaternionIdentity[f64]()) {
		t.Errorf("q * q^-1 = %s, want identity", got)
	}
	v := v3(3, 1, -2)
	if got := q.Inverse().Transform(q.Transform(v)); !got.NearlyEquals(v) {
		t.Errorf("inverse undo = %s, want %s", got, v)
	}
}

func TestQuaternionFromYawPitchRoll(t *testing.T) {
	yaw, pitch, roll := scalar.Float64(0.7), scalar.Float64(-0.3), scalar.Float64(1.1)

	got := QuaternionFromYawPitchRoll(yaw, pitch, roll)
	want := QuaternionFromAxisAngle(UnitY[f64](), yaw).
		Mul(QuaternionFromAxisAngle(UnitX[f64](), pitch)).
		Mul(QuaternionFromAxisAngle(UnitZ[f64](), roll))
	if !got.SameRotation(want) {
		t.Errorf("yaw-pitch-roll = %s, want %s", got, want)
	}
}

func TestQuaternionSlerpUnitNorm(t *testing.T) {
	pairs := [][2]Quaternion[f64]{
		{qAxisAngle(1, 0, 0, 0.4), qAxisAngle(0, 1, 0, 2.1)},
		{qAxisAngle(1, 2, 3, 3.0), qAxisAngle(-1, 1, 0, 0.2)},
		{qAxisAngle(0, 0, 1, 0.1), qAxisAngle(0, 0, 1, 0.1000001)},
	}
	ts := []float64{0, 0.25, 0.5, 0.75, 1}
	one := scalar.Float64(1)

	for _, pair := range pairs {
		q, r := pair[0], pair[1]
		for _, tt := range ts {
			s := q.Slerp(r, scalar.Float64(tt))
			if !s.Length().IsNearlyEqual(one) {
				t.Errorf("slerp(%s, %s, %v) norm = %s, want 1", q, r, tt, s.Length())
			}
		}
		if got := q.Slerp(r, scalar.Float64(0)); !got.SameRotation(q) {
			t.Errorf("slerp t=0 = %s, want %s", got, q)
		}
		if got := q.Slerp(r, scalar.Float64(1)); !got.SameRotation(r) {
			t.Errorf("slerp t=1 = %s, want %s", got, r)
		}
	}
}

func TestQuaternionSlerpIdentityStaysExact(t *testing.T) {
	id := QuaternionIdentity[f64]()
	got := id.Slerp(id, scalar.Float64(0.3))
	if got != id {
		t.Errorf("slerp(id, id, 0.3) = %s, want exact identity", got)
	}
}

func TestQuaternionSlerpShortestPath(t *testing.T) {
	a := QuaternionIdentity[f64]()
	b := qAxisAngle(0, 0, 1, 350*math.Pi/180)

	mid := a.Slerp(b, scalar.Float64(0.5))
	_, angle := mid.ToAxisAngle()
	if want := scalar.Float64(5 * math.Pi / 180); !angle.IsNearlyEqual(want) {
		t.Errorf("midpoint angle = %s, want %s (short way around)", angle, want)
	}

	// negating one operand must not change the interpolated rotation
	if got := a.Slerp(b.Neg(), scalar.Float64(0.5)); !got.SameRotation(mid) {
		t.Errorf("slerp against -q = %s, want %s", got, mid)
	}
}

func TestQuaternionLerpNormalizes(t *testing.T) {
	q := qAxisAngle(1, 1, 0, 0.6)
	r := qAxisAngle(0, 1, 1, 1.9)
	got := q.Lerp(r, scalar.Float64(0.4))
	if !got.Length().IsNearlyEqual(scalar.Float64(1)) {
		t.Errorf("lerp norm = %s, want 1", got.Length())
	}
}

func TestQuaternionMatrixRoundTrip(t *testing.T) {
	cases := []Quaternion[f64]{
		qAxisAngle(1, 2, 3, 0.5),                 // trace-positive branch
		NewQuaternion[f64](1, 0, 0, 0).Normalize(), // half turn about X
		NewQuaternion[f64](0, 1, 0, 0).Normalize(), // half turn about Y
		NewQuaternion[f64](0, 0, 1, 0).Normalize(), // half turn about Z
		qAxisAngle(1, 1, 0, 179*math.Pi/180),
		qAxisAngle(-2, 5, 1, 3.1),
	}
	for _, q := range cases {
		got := QuaternionFromRotationMatrix(q.ToMatrix())
		if !got.SameRotation(q) {
			t.Errorf("matrix round trip of %s = %s", q, got)
		}
	}
}

func TestQuaternionTransformMatchesMatrix(t *testing.T) {
	q := qAxisAngle(3, -1, 2, 1.7)
	v := v3(0.3, 4, -1.5)
	if got, want := q.ToMatrix().TransformVector(v), q.Transform(v); !got.NearlyEquals(want) {
		t.Errorf("matrix transform = %s, quaternion transform = %s", got, want)
	}
}

func TestQuaternionTransformMatchesGonum(t *testing.T) {
	quats := []Quaternion[f64]{
		qAxisAngle(1, 0, 0, 0.9),
		qAxisAngle(1, -2, 0.5, 2.4),
		qAxisAngle(0, 0, 1, math.Pi/2),
	}
	vecs := []Vector3[f64]{
		v3(1, 0, 0),
		v3(-2, 3, 0.25),
		v3(0.001, -400, 5),
	}
	for _, q := range quats {
		gq := quat.Number{Real: float64(q.W), Imag: float64(q.X), Jmag: float64(q.Y), Kmag: float64(q.Z)}
		for _, v := range vecs {
			gv := quat.Number{Imag: float64(v.X), Jmag: float64(v.Y), Kmag: float64(v.Z)}
			gr := quat.Mul(gq, quat.Mul(gv, quat.Conj(gq)))

			got := q.Transform(v)
			if math.Abs(float64(got.X)-gr.Imag) > 1e-9 ||
				math.Abs(float64(got.Y)-gr.Jmag) > 1e-9 ||
				math.Abs(float64(got.Z)-gr.Kmag) > 1e-9 {
				t.Errorf("transform %s by %s = %s, reference (%v, %v, %v)", v, q, got, gr.Imag, gr.Jmag, gr.Kmag)
			}
		}
	}
}

func TestQuaternionSlerpDecimal(t *testing.T) {
	type dec = scalar.Decimal
	q := QuaternionFromAxisAngle(Vector3From[dec](1, 2, 3).Normalize(), scalar.FromFloat[dec](0.7))
	r := QuaternionFromAxisAngle(Vector3From[dec](0, 1, -1).Normalize(), scalar.FromFloat[dec](2.2))

	// trig pivots through float64, so the norm is only float64-accurate
	s := q.Slerp(r, scalar.FromFloat[dec](0.35))
	if norm := s.Length().Float64(); math.Abs(norm-1) > 1e-12 {
		t.Errorf("decimal slerp norm = %v, want 1", norm)
	}
}

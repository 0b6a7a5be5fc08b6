package spatial

import (
	"testing"

	"github.com/geomsync/geomsync/internal/core/scalar"
)

type f64 = scalar.Float64

func v3(x, y, z float64) Vector3[f64] { return Vector3From[f64](x, y, z) }

func TestVector3Basics(t *testing.T) {
	a := v3(1, 2, 3)
	b := v3(4, -5, 6)

	if got, want := a.Add(b), v3(5, -3, 9); !got.NearlyEquals(want) {
		t.Errorf("add = %s, want %s", got, want)
	}
	if got, want := a.Sub(b), v3(-3, 7, -3); !got.NearlyEquals(want) {
		t.Errorf("sub = %s, want %s", got, want)
	}
	if got := a.Dot(b); !got.IsNearlyEqual(scalar.Float64(12)) {
		t.Errorf("dot = %s, want 12", got)
	}
	if got, want := a.Cross(b), v3(27, 6, -13); !got.NearlyEquals(want) {
		t.Errorf("cross = %s, want %s", got, want)
	}
	if got := v3(3, 4, 0).Length(); !got.IsNearlyEqual(scalar.Float64(5)) {
		t.Errorf("length = %s, want 5", got)
	}
	if got := v3(1, 2, 2).Distance(v3(1, 2, 2)); !got.IsNearlyZero() {
		t.Errorf("distance to self = %s, want 0", got)
	}
}

func TestVector3NormalizeIdempotent(t *testing.T) {
	v := v3(10, -4, 3)
	n := v.Normalize()
	if !n.Length().IsNearlyEqual(scalar.Float64(1)) {
		t.Fatalf("normalized length = %s, want 1", n.Length())
	}
	if again := n.Normalize(); !again.NearlyEquals(n) {
		t.Errorf("normalize twice drifted: %s vs %s", again, n)
	}
}

func TestVector3Reflect(t *testing.T) {
	v := v3(1, -1, 0)
	n := v3(0, 1, 0)
	if got, want := v.Reflect(n), v3(1, 1, 0); !got.NearlyEquals(want) {
		t.Errorf("reflect = %s, want %s", got, want)
	}

	// reflecting twice about the same normal restores the input
	if got := v.Reflect(n).Reflect(n); !got.NearlyEquals(v) {
		t.Errorf("double reflect = %s, want %s", got, v)
	}
}

func TestVector3Lerp(t *testing.T) {
	a, b := v3(0, 0, 0), v3(10, -20, 30)
	if got := a.Lerp(b, scalar.Float64(0)); !got.NearlyEquals(a) {
		t.Errorf("lerp t=0 = %s, want %s", got, a)
	}
	if got := a.Lerp(b, scalar.Float64(1)); !got.NearlyEquals(b) {
		t.Errorf("lerp t=1 = %s, want %s", got, b)
	}
	if got, want := a.Lerp(b, scalar.Float64(0.5)), v3(5, -10, 15); !got.NearlyEquals(want) {
		t.Errorf("lerp t=0.5 = %s, want %s", got, want)
	}
}

func TestVector3Parallel(t *testing.T) {
	a := v3(1, 2, 3)

	if !a.ParallelTo(v3(2, 4, 6)) {
		t.Error("colinear vectors should be parallel")
	}
	if !a.StrictlyParallelTo(v3(2, 4, 6)) {
		t.Error("exactly colinear vectors should be strictly parallel")
	}
	if !a.ParallelTo(a.Neg()) {
		t.Error("opposite vectors should be parallel")
	}
	if a.ParallelTo(v3(-2, 1, 0)) {
		t.Error("perpendicular vectors should not be parallel")
	}
	if a.ParallelTo(Zero3[f64]()) {
		t.Error("zero vector should be parallel to nothing")
	}
	if a.StrictlyParallelTo(v3(2, 4, 6.000001)) {
		t.Error("perturbed vector should not be strictly parallel")
	}
}

func TestVector3RotationTo(t *testing.T) {
	from := v3(1, 2, 3)
	to := v3(-2, 1, 0.5)

	q := from.RotationTo(to)
	if !q.Length().IsNearlyEqual(scalar.Float64(1)) {
		t.Fatalf("rotation quaternion not unit: %s", q.Length())
	}
	got := q.Transform(from).Normalize()
	if want := to.Normalize(); !got.NearlyEquals(want) {
		t.Errorf("rotated direction = %s, want %s", got, want)
	}
}

// Anti-parallel directions admit no unique shortest arc; the result must
// still be a valid half turn mapping one onto the other.
func TestVector3RotationToAntiParallel(t *testing.T) {
	cases := []Vector3[f64]{
		v3(1, 2, 3),
		v3(1, 0, 0),
		v3(0, -4, 0),
	}
	for _, from := range cases {
		q := from.RotationTo(from.Neg())
		if !q.Length().IsNearlyEqual(scalar.Float64(1)) {
			t.Fatalf("rotation for %s not unit: %s", from, q.Length())
		}
		got := q.Transform(from)
		if want := from.Neg(); !got.NearlyEquals(want) {
			t.Errorf("transform %s = %s, want %s", from, got, want)
		}
	}
}

func TestVector3RotationToParallelIsIdentity(t *testing.T) {
	v := v3(0, 5, 0)
	if q := v.RotationTo(v3(0, 2, 0)); !q.IsIdentity() {
		t.Errorf("rotation between colinear directions = %s, want identity", q)
	}
}

func TestVector2Basics(t *testing.T) {
	a := Vector2From[f64](3, 4)
	if got := a.Length(); !got.IsNearlyEqual(scalar.Float64(5)) {
		t.Errorf("length = %s, want 5", got)
	}
	if got := a.Cross(Vector2From[f64](-4, 3)); !got.IsNearlyEqual(scalar.Float64(25)) {
		t.Errorf("cross = %s, want 25", got)
	}
	n := a.Normalize()
	if !n.NearlyEquals(Vector2From[f64](0.6, 0.8)) {
		t.Errorf("normalize = %s, want (0.6, 0.8)", n)
	}
}

func TestVector3MinMaxClamp(t *testing.T) {
	a := v3(1, 5, -2)
	b := v3(3, 2, 0)

	if got, want := a.Min(b), v3(1, 2, -2); !got.NearlyEquals(want) {
		t.Errorf("min = %s, want %s", got, want)
	}
	if got, want := a.Max(b), v3(3, 5, 0); !got.NearlyEquals(want) {
		t.Errorf("max = %s, want %s", got, want)
	}
	lo, hi := v3(0, 0, 0), v3(2, 2, 2)
	if got, want := a.Clamp(lo, hi), v3(1, 2, 0); !got.NearlyEquals(want) {
		t.Errorf("clamp = %s, want %s", got, want)
	}
}

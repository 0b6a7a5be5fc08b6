package spatial

import (
	"fmt"

	"github.com/geomsync/geomsync/internal/core/scalar"
)

// Quaternion is an immutable rotation quaternion (X, Y, Z imaginary parts and
// W real part). Rotation-bearing operations assume unit length; constructors
// return unit quaternions.
type Quaternion[T scalar.Scalar[T]] struct {
	X, Y, Z, W T
}

// NewQuaternion builds a quaternion from raw components.
func NewQuaternion[T scalar.Scalar[T]](x, y, z, w T) Quaternion[T] {
	return Quaternion[T]{X: x, Y: y, Z: z, W: w}
}

// QuaternionIdentity returns the no-rotation quaternion (0, 0, 0, 1).
func QuaternionIdentity[T scalar.Scalar[T]]() Quaternion[T] {
	var q Quaternion[T]
	q.W = scalar.One[T]()
	return q
}

// QuaternionFromAxisAngle builds the rotation of angle radians about the
// given axis. The axis need not be unit length.
func QuaternionFromAxisAngle[T scalar.Scalar[T]](axis Vector3[T], angle T) Quaternion[T] {
	n := axis.Normalize()
	half := angle.Div(scalar.Two[T]())
	s := half.Sin()
	return Quaternion[T]{
		X: n.X.Mul(s),
		Y: n.Y.Mul(s),
		Z: n.Z.Mul(s),
		W: half.Cos(),
	}
}

// QuaternionFromYawPitchRoll builds a rotation from yaw (about y), pitch
// (about x) and roll (about z) in radians.
func QuaternionFromYawPitchRoll[T scalar.Scalar[T]](yaw, pitch, roll T) Quaternion[T] {
	two := scalar.Two[T]()
	hy, hp, hr := yaw.Div(two), pitch.Div(two), roll.Div(two)
	sy, cy := hy.Sin(), hy.Cos()
	sp, cp := hp.Sin(), hp.Cos()
	sr, cr := hr.Sin(), hr.Cos()

	return Quaternion[T]{
		X: cy.Mul(sp).Mul(cr).Add(sy.Mul(cp).Mul(sr)),
		Y: sy.Mul(cp).Mul(cr).Sub(cy.Mul(sp).Mul(sr)),
		Z: cy.Mul(cp).Mul(sr).Sub(sy.Mul(sp).Mul(cr)),
		W: cy.Mul(cp).Mul(cr).Add(sy.Mul(sp).Mul(sr)),
	}
}

// QuaternionFromRotationMatrix recovers the rotation from the upper 3x3 of a
// row-vector rotation matrix, branching on the trace or the largest diagonal
// element for numeric stability.
func QuaternionFromRotationMatrix[T scalar.Scalar[T]](m Matrix4x4[T]) Quaternion[T] {
	one := scalar.One[T]()
	two := scalar.Two[T]()
	half := one.Div(two)
	trace := m.M11.Add(m.M22).Add(m.M33)

	if trace.Cmp(scalar.Zero[T]()) > 0 {
		s := trace.Add(one).Sqrt()
		w := s.Div(two)
		inv := half.Div(s)
		return Quaternion[T]{
			X: m.M23.Sub(m.M32).Mul(inv),
			Y: m.M31.Sub(m.M13).Mul(inv),
			Z: m.M12.Sub(m.M21).Mul(inv),
			W: w,
		}
	}

	if m.M11.Cmp(m.M22) >= 0 && m.M11.Cmp(m.M33) >= 0 {
		s := one.Add(m.M11).Sub(m.M22).Sub(m.M33).Sqrt()
		inv := half.Div(s)
		return Quaternion[T]{
			X: s.Div(two),
			Y: m.M12.Add(m.M21).Mul(inv),
			Z: m.M13.Add(m.M31).Mul(inv),
			W: m.M23.Sub(m.M32).Mul(inv),
		}
	}

	if m.M22.Cmp(m.M33) > 0 {
		s := one.Add(m.M22).Sub(m.M11).Sub(m.M33).Sqrt()
		inv := half.Div(s)
		return Quaternion[T]{
			X: m.M21.Add(m.M12).Mul(inv),
			Y: s.Div(two),
			Z: m.M32.Add(m.M23).Mul(inv),
			W: m.M31.Sub(m.M13).Mul(inv),
		}
	}

	s := one.Add(m.M33).Sub(m.M11).Sub(m.M22).Sqrt()
	inv := half.Div(s)
	return Quaternion[T]{
		X: m.M31.Add(m.M13).Mul(inv),
		Y: m.M32.Add(m.M23).Mul(inv),
		Z: s.Div(two),
		W: m.M12.Sub(m.M21).Mul(inv),
	}
}

// Mul is the Hamilton product q*r: the rotation that applies r first, then q.
func (q Quaternion[T]) Mul(r Quaternion[T]) Quaternion[T] {
	return Quaternion[T]{
		X: q.W.Mul(r.X).Add(q.X.Mul(r.W)).Add(q.Y.Mul(r.Z)).Sub(q.Z.Mul(r.Y)),
		Y: q.W.Mul(r.Y).Sub(q.X.Mul(r.Z)).Add(q.Y.Mul(r.W)).Add(q.Z.Mul(r.X)),
		Z: q.W.Mul(r.Z).Add(q.X.Mul(r.Y)).Sub(q.Y.Mul(r.X)).Add(q.Z.Mul(r.W)),
		W: q.W.Mul(r.W).Sub(q.X.Mul(r.X)).Sub(q.Y.Mul(r.Y)).Sub(q.Z.Mul(r.Z)),
	}
}

// Concatenate returns the rotation that applies the receiver first, then
// next.
func (q Quaternion[T]) Concatenate(next Quaternion[T]) Quaternion[T] {
	return next.Mul(q)
}

func (q Quaternion[T]) Conjugate() Quaternion[T] {
	return Quaternion[T]{X: q.X.Neg(), Y: q.Y.Neg(), Z: q.Z.Neg(), W: q.W}
}

// Inverse returns the reverse rotation. For unit quaternions this equals the
// conjugate; non-unit inputs are compensated by the squared length.
func (q Quaternion[T]) Inverse() Quaternion[T] {
	invLen := scalar.One[T]().Div(q.LengthSquared())
	c := q.Conjugate()
	return Quaternion[T]{
		X: c.X.Mul(invLen),
		Y: c.Y.Mul(invLen),
		Z: c.Z.Mul(invLen),
		W: c.W.Mul(invLen),
	}
}

func (q Quaternion[T]) Dot(r Quaternion[T]) T {
	return q.X.Mul(r.X).Add(q.Y.Mul(r.Y)).Add(q.Z.Mul(r.Z)).Add(q.W.Mul(r.W))
}

func (q Quaternion[T]) LengthSquared() T { return q.Dot(q) }
func (q Quaternion[T]) Length() T        { return q.LengthSquared().Sqrt() }

func (q Quaternion[T]) Normalize() Quaternion[T] {
	inv := scalar.One[T]().Div(q.Length())
	return Quaternion[T]{
		X: q.X.Mul(inv),
		Y: q.Y.Mul(inv),
		Z: q.Z.Mul(inv),
		W: q.W.Mul(inv),
	}
}

func (q Quaternion[T]) Neg() Quaternion[T] {
	return Quaternion[T]{X: q.X.Neg(), Y: q.Y.Neg(), Z: q.Z.Neg(), W: q.W.Neg()}
}

// slerpLerpThreshold is how close the cosine of the half angle must be to one
// before Slerp degrades to a normalized linear blend to dodge the vanishing
// sine denominator.
const slerpLerpThreshold = 1e-6

// Slerp interpolates along the shortest great-circle arc between two unit
// quaternions. Nearly parallel inputs blend linearly and renormalize.
func (q Quaternion[T]) Slerp(r Quaternion[T], t T) Quaternion[T] {
	cosOmega := q.Dot(r)
	if cosOmega.Cmp(scalar.Zero[T]()) < 0 {
		r = r.Neg()
		cosOmega = cosOmega.Neg()
	}

	one := scalar.One[T]()
	if cosOmega.Cmp(one.Sub(scalar.FromFloat[T](slerpLerpThreshold))) > 0 {
		return q.lerpAligned(r, t)
	}

	omega := cosOmega.Acos()
	theta := omega.Mul(t)
	sinOmega := omega.Sin()
	sinTheta := theta.Sin()

	s0 := theta.Cos().Sub(cosOmega.Mul(sinTheta).Div(sinOmega))
	s1 := sinTheta.Div(sinOmega)
	return q.scaleAdd(s0, r, s1).Normalize()
}

// Lerp is the sign-corrected normalized linear blend, a cheaper companion to
// Slerp that does not sweep at constant angular velocity.
func (q Quaternion[T]) Lerp(r Quaternion[T], t T) Quaternion[T] {
	if q.Dot(r).Cmp(scalar.Zero[T]()) < 0 {
		r = r.Neg()
	}
	return q.lerpAligned(r, t)
}

func (q Quaternion[T]) lerpAligned(r Quaternion[T], t T) Quaternion[T] {
	s := scalar.One[T]().Sub(t)
	return q.scaleAdd(s, r, t).Normalize()
}

func (q Quaternion[T]) scaleAdd(s0 T, r Quaternion[T], s1 T) Quaternion[T] {
	return Quaternion[T]{
		X: q.X.Mul(s0).Add(r.X.Mul(s1)),
		Y: q.Y.Mul(s0).Add(r.Y.Mul(s1)),
		Z: q.Z.Mul(s0).Add(r.Z.Mul(s1)),
		W: q.W.Mul(s0).Add(r.W.Mul(s1)),
	}
}

// ToAxisAngle decomposes into a unit rotation axis and an angle in [0, pi].
// The identity has no axis; x is returned by convention.
func (q Quaternion[T]) ToAxisAngle() (Vector3[T], T) {
	one := scalar.One[T]()
	w := scalar.Clamp(q.W, one.Neg(), one)
	angle := w.Acos().Mul(scalar.Two[T]())
	s := one.Sub(w.Mul(w)).Sqrt()
	if s.IsNearlyZero() {
		return UnitX[T](), angle
	}
	return Vector3[T]{X: q.X.Div(s), Y: q.Y.Div(s), Z: q.Z.Div(s)}, angle
}

// ToMatrix expands the rotation into a row-vector 4x4 matrix.
func (q Quaternion[T]) ToMatrix() Matrix4x4[T] {
	return Matrix4x4CreateFromQuaternion(q)
}

// Transform rotates a vector by the unit quaternion using the expanded
// doubled-component form.
func (q Quaternion[T]) Transform(v Vector3[T]) Vector3[T] {
	one := scalar.One[T]()

	x2, y2, z2 := q.X.Add(q.X), q.Y.Add(q.Y), q.Z.Add(q.Z)
	wx2, wy2, wz2 := q.W.Mul(x2), q.W.Mul(y2), q.W.Mul(z2)
	xx2, xy2, xz2 := q.X.Mul(x2), q.X.Mul(y2), q.X.Mul(z2)
	yy2, yz2, zz2 := q.Y.Mul(y2), q.Y.Mul(z2), q.Z.Mul(z2)

	return Vector3[T]{
		X: v.X.Mul(one.Sub(yy2).Sub(zz2)).
			Add(v.Y.Mul(xy2.Sub(wz2))).
			Add(v.Z.Mul(xz2.Add(wy2))),
		Y: v.X.Mul(xy2.Add(wz2)).
			Add(v.Y.Mul(one.Sub(xx2).Sub(zz2))).
			Add(v.Z.Mul(yz2.Sub(wx2))),
		Z: v.X.Mul(xz2.Sub(wy2)).
			Add(v.Y.Mul(yz2.Add(wx2))).
			Add(v.Z.Mul(one.Sub(xx2).Sub(yy2))),
	}
}

// IsIdentity reports whether the rotation is the identity within epsilon.
func (q Quaternion[T]) IsIdentity() bool {
	return q.NearlyEquals(QuaternionIdentity[T]())
}

func (q Quaternion[T]) NearlyEquals(r Quaternion[T]) bool {
	return q.X.IsNearlyEqual(r.X) && q.Y.IsNearlyEqual(r.Y) &&
		q.Z.IsNearlyEqual(r.Z) && q.W.IsNearlyEqual(r.W)
}

// SameRotation reports whether two unit quaternions encode the same rotation,
// treating q and -q as equal.
func (q Quaternion[T]) SameRotation(r Quaternion[T]) bool {
	return q.Dot(r).Abs().IsNearlyEqual(scalar.One[T]())
}

func (q Quaternion[T]) String() string {
	return fmt.Sprintf("(%s, %s, %s, %s)", q.X.String(), q.Y.String(), q.Z.String(), q.W.String())
}

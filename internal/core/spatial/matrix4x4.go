package spatial

import (
	"fmt"

	"github.com/geomsync/geomsync/internal/core/scalar"
)

// Matrix4x4 is an immutable 3D homogeneous transform under the row-vector
// convention: points transform as (x, y, z, 1) * M, and A.Mul(B) applies A
// first, then B. Translation therefore lives in the fourth row.
type Matrix4x4[T scalar.Scalar[T]] struct {
	M11, M12, M13, M14 T
	M21, M22, M23, M24 T
	M31, M32, M33, M34 T
	M41, M42, M43, M44 T
}

// Matrix4x4Identity returns the identity transform.
func Matrix4x4Identity[T scalar.Scalar[T]]() Matrix4x4[T] {
	one := scalar.One[T]()
	var m Matrix4x4[T]
	m.M11 = one
	m.M22 = one
	m.M33 = one
	m.M44 = one
	return m
}

// Matrix4x4CreateTranslation builds a translation by d.
func Matrix4x4CreateTranslation[T scalar.Scalar[T]](d Vector3[T]) Matrix4x4[T] {
	m := Matrix4x4Identity[T]()
	m.M41 = d.X
	m.M42 = d.Y
	m.M43 = d.Z
	return m
}

// Matrix4x4CreateScale builds a per-axis scale about the origin.
func Matrix4x4CreateScale[T scalar.Scalar[T]](s Vector3[T]) Matrix4x4[T] {
	var m Matrix4x4[T]
	m.M11 = s.X
	m.M22 = s.Y
	m.M33 = s.Z
	m.M44 = scalar.One[T]()
	return m
}

// Matrix4x4CreateScaleUniform builds a uniform scale about the origin.
func Matrix4x4CreateScaleUniform[T scalar.Scalar[T]](s T) Matrix4x4[T] {
	return Matrix4x4CreateScale(Splat3(s))
}

// Matrix4x4CreateRotationX builds a rotation by angle radians about the x
// axis.
func Matrix4x4CreateRotationX[T scalar.Scalar[T]](angle T) Matrix4x4[T] {
	s, c := angle.Sin(), angle.Cos()
	m := Matrix4x4Identity[T]()
	m.M22 = c
	m.M23 = s
	m.M32 = s.Neg()
	m.M33 = c
	return m
}

// Matrix4x4CreateRotationY builds a rotation by angle radians about the y
// axis.
func Matrix4x4CreateRotationY[T scalar.Scalar[T]](angle T) Matrix4x4[T] {
	s, c := angle.Sin(), angle.Cos()
	m := Matrix4x4Identity[T]()
	m.M11 = c
	m.M13 = s.Neg()
	m.M31 = s
	m.M33 = c
	return m
}

// Matrix4x4CreateRotationZ builds a rotation by angle radians about the z
// axis.
func Matrix4x4CreateRotationZ[T scalar.Scalar[T]](angle T) Matrix4x4[T] {
	s, c := angle.Sin(), angle.Cos()
	m := Matrix4x4Identity[T]()
	m.M11 = c
	m.M12 = s
	m.M21 = s.Neg()
	m.M22 = c
	return m
}

// Matrix4x4CreateFromAxisAngle builds a rotation by angle radians about an
// arbitrary axis.
func Matrix4x4CreateFromAxisAngle[T scalar.Scalar[T]](axis Vector3[T], angle T) Matrix4x4[T] {
	n := axis.Normalize()
	x, y, z := n.X, n.Y, n.Z
	sa, ca := angle.Sin(), angle.Cos()
	one := scalar.One[T]()

	xx, yy, zz := x.Mul(x), y.Mul(y), z.Mul(z)
	xy, xz, yz := x.Mul(y), x.Mul(z), y.Mul(z)

	m := Matrix4x4Identity[T]()
	m.M11 = xx.Add(ca.Mul(one.Sub(xx)))
	m.M12 = xy.Sub(ca.Mul(xy)).Add(sa.Mul(z))
	m.M13 = xz.Sub(ca.Mul(xz)).Sub(sa.Mul(y))
	m.M21 = xy.Sub(ca.Mul(xy)).Sub(sa.Mul(z))
	m.M22 = yy.Add(ca.Mul(one.Sub(yy)))
	m.M23 = yz.Sub(ca.Mul(yz)).Add(sa.Mul(x))
	m.M31 = xz.Sub(ca.Mul(xz)).Add(sa.Mul(y))
	m.M32 = yz.Sub(ca.Mul(yz)).Sub(sa.Mul(x))
	m.M33 = zz.Add(ca.Mul(one.Sub(zz)))
	return m
}

// Matrix4x4CreateFromQuaternion expands a unit quaternion into its rotation
// matrix.
func Matrix4x4CreateFromQuaternion[T scalar.Scalar[T]](q Quaternion[T]) Matrix4x4[T] {
	one := scalar.One[T]()
	two := scalar.Two[T]()

	xx, yy, zz := q.X.Mul(q.X), q.Y.Mul(q.Y), q.Z.Mul(q.Z)
	xy, xz, yz := q.X.Mul(q.Y), q.X.Mul(q.Z), q.Y.Mul(q.Z)
	wx, wy, wz := q.W.Mul(q.X), q.W.Mul(q.Y), q.W.Mul(q.Z)

	m := Matrix4x4Identity[T]()
	m.M11 = one.Sub(two.Mul(yy.Add(zz)))
	m.M12 = two.Mul(xy.Add(wz))
	m.M13 = two.Mul(xz.Sub(wy))
	m.M21 = two.Mul(xy.Sub(wz))
	m.M22 = one.Sub(two.Mul(xx.Add(zz)))
	m.M23 = two.Mul(yz.Add(wx))
	m.M31 = two.Mul(xz.Add(wy))
	m.M32 = two.Mul(yz.Sub(wx))
	m.M33 = one.Sub(two.Mul(xx.Add(yy)))
	return m
}

// Mul composes two transforms: the receiver applies first, then o.
func (m Matrix4x4[T]) Mul(o Matrix4x4[T]) Matrix4x4[T] {
	return Matrix4x4[T]{
		M11: m.M11.Mul(o.M11).Add(m.M12.Mul(o.M21)).Add(m.M13.Mul(o.M31)).Add(m.M14.Mul(o.M41)),
		M12: m.M11.Mul(o.M12).Add(m.M12.Mul(o.M22)).Add(m.M13.Mul(o.M32)).Add(m.M14.Mul(o.M42)),
		M13: m.M11.Mul(o.M13).Add(m.M12.Mul(o.M23)).Add(m.M13.Mul(o.M33)).Add(m.M14.Mul(o.M43)),
		M14: m.M11.Mul(o.M14).Add(m.M12.Mul(o.M24)).Add(m.M13.Mul(o.M34)).Add(m.M14.Mul(o.M44)),

		M21: m.M21.Mul(o.M11).Add(m.M22.Mul(o.M21)).Add(m.M23.Mul(o.M31)).Add(m.M24.Mul(o.M41)),
		M22: m.M21.Mul(o.M12).Add(m.M22.Mul(o.M22)).Add(m.M23.Mul(o.M32)).Add(m.M24.Mul(o.M42)),
		M23: m.M21.Mul(o.M13).Add(m.M22.Mul(o.M23)).Add(m.M23.Mul(o.M33)).Add(m.M24.Mul(o.M43)),
		M24: m.M21.Mul(o.M14).Add(m.M22.Mul(o.M24)).Add(m.M23.Mul(o.M34)).Add(m.M24.Mul(o.M44)),

		M31: m.M31.Mul(o.M11).Add(m.M32.Mul(o.M21)).Add(m.M33.Mul(o.M31)).Add(m.M34.Mul(o.M41)),
		M32: m.M31.Mul(o.M12).Add(m.M32.Mul(o.M22)).Add(m.M33.Mul(o.M32)).Add(m.M34.Mul(o.M42)),
		M33: m.M31.Mul(o.M13).Add(m.M32.Mul(o.M23)).Add(m.M33.Mul(o.M33)).Add(m.M34.Mul(o.M43)),
		M34: m.M31.Mul(o.M14).Add(m.M32.Mul(o.M24)).Add(m.M33.Mul(o.M34)).Add(m.M34.Mul(o.M44)),

		M41: m.M41.Mul(o.M11).Add(m.M42.Mul(o.M21)).Add(m.M43.Mul(o.M31)).Add(m.M44.Mul(o.M41)),
		M42: m.M41.Mul(o.M12).Add(m.M42.Mul(o.M22)).Add(m.M43.Mul(o.M32)).Add(m.M44.Mul(o.M42)),
		M43: m.M41.Mul(o.M13).Add(m.M42.Mul(o.M23)).Add(m.M43.Mul(o.M33)).Add(m.M44.Mul(o.M43)),
		M44: m.M41.Mul(o.M14).Add(m.M42.Mul(o.M24)).Add(m.M43.Mul(o.M34)).Add(m.M44.Mul(o.M44)),
	}
}

func (m Matrix4x4[T]) Transpose() Matrix4x4[T] {
	return Matrix4x4[T]{
		M11: m.M11, M12: m.M21, M13: m.M31, M14: m.M41,
		M21: m.M12, M22: m.M22, M23: m.M32, M24: m.M42,
		M31: m.M13, M32: m.M23, M33: m.M33, M34: m.M43,
		M41: m.M14, M42: m.M24, M43: m.M34, M44: m.M44,
	}
}

// det2 is the 2x2 determinant a*b - c*d.
func det2[T scalar.Scalar[T]](a, b, c, d T) T {
	return a.Mul(b).Sub(c.Mul(d))
}

// Determinant expands along the first row over 2x2 minors.
func (m Matrix4x4[T]) Determinant() T {
	kplo := det2(m.M33, m.M44, m.M34, m.M43)
	jpln := det2(m.M32, m.M44, m.M34, m.M42)
	jokn := det2(m.M32, m.M43, m.M33, m.M42)
	iplm := det2(m.M31, m.M44, m.M34, m.M41)
	iokm := det2(m.M31, m.M43, m.M33, m.M41)
	injm := det2(m.M31, m.M42, m.M32, m.M41)

	c1 := m.M22.Mul(kplo).Sub(m.M23.Mul(jpln)).Add(m.M24.Mul(jokn))
	c2 := m.M21.Mul(kplo).Sub(m.M23.Mul(iplm)).Add(m.M24.Mul(iokm))
	c3 := m.M21.Mul(jpln).Sub(m.M22.Mul(iplm)).Add(m.M24.Mul(injm))
	c4 := m.M21.Mul(jokn).Sub(m.M22.Mul(iokm)).Add(m.M23.Mul(injm))

	return m.M11.Mul(c1).Sub(m.M12.Mul(c2)).Add(m.M13.Mul(c3)).Sub(m.M14.Mul(c4))
}

// Invert returns the inverse transform, or (identity, false) when the
// determinant is nearly zero and no inverse exists.
func (m Matrix4x4[T]) Invert() (Matrix4x4[T], bool) {
	a, b, c, d := m.M11, m.M12, m.M13, m.M14
	e, f, g, h := m.M21, m.M22, m.M23, m.M24
	i, j, k, l := m.M31, m.M32, m.M33, m.M34
	mm, n, o, p := m.M41, m.M42, m.M43, m.M44

	kplo := det2(k, p, l, o)
	jpln := det2(j, p, l, n)
	jokn := det2(j, o, k, n)
	iplm := det2(i, p, l, mm)
	iokm := det2(i, o, k, mm)
	injm := det2(i, n, j, mm)

	a11 := f.Mul(kplo).Sub(g.Mul(jpln)).Add(h.Mul(jokn))
	a12 := e.Mul(kplo).Sub(g.Mul(iplm)).Add(h.Mul(iokm)).Neg()
	a13 := e.Mul(jpln).Sub(f.Mul(iplm)).Add(h.Mul(injm))
	a14 := e.Mul(jokn).Sub(f.Mul(iokm)).Add(g.Mul(injm)).Neg()

	det := a.Mul(a11).Add(b.Mul(a12)).Add(c.Mul(a13)).Add(d.Mul(a14))
	if det.IsNearlyZero() {
		return Matrix4x4Identity[T](), false
	}
	inv := scalar.One[T]().Div(det)

	var r Matrix4x4[T]
	r.M11 = a11.Mul(inv)
	r.M21 = a12.Mul(inv)
	r.M31 = a13.Mul(inv)
	r.M41 = a14.Mul(inv)

	r.M12 = b.Mul(kplo).Sub(c.Mul(jpln)).Add(d.Mul(jokn)).Neg().Mul(inv)
	r.M22 = a.Mul(kplo).Sub(c.Mul(iplm)).Add(d.Mul(iokm)).Mul(inv)
	r.M32 = a.Mul(jpln).Sub(b.Mul(iplm)).Add(d.Mul(injm)).Neg().Mul(inv)
	r.M42 = a.Mul(jokn).Sub(b.Mul(iokm)).Add(c.Mul(injm)).Mul(inv)

	gpho := det2(g, p, h, o)
	fphn := det2(f, p, h, n)
	fogn := det2(f, o, g, n)
	ephm := det2(e, p, h, mm)
	eogm := det2(e, o, g, mm)
	enfm := det2(e, n, f, mm)

	r.M13 = b.Mul(gpho).Sub(c.Mul(fphn)).Add(d.Mul(fogn)).Mul(inv)
	r.M23 = a.Mul(gpho).Sub(c.Mul(ephm)).Add(d.Mul(eogm)).Neg().Mul(inv)
	r.M33 = a.Mul(fphn).Sub(b.Mul(ephm)).Add(d.Mul(enfm)).Mul(inv)
	r.M43 = a.Mul(fogn).Sub(b.Mul(eogm)).Add(c.Mul(enfm)).Neg().Mul(inv)

	glhk := det2(g, l, h, k)
	flhj := det2(f, l, h, j)
	fkgj := det2(f, k, g, j)
	elhi := det2(e, l, h, i)
	ekgi := det2(e, k, g, i)
	ejfi := det2(e, j, f, i)

	r.M14 = b.Mul(glhk).Sub(c.Mul(flhj)).Add(d.Mul(fkgj)).Neg().Mul(inv)
	r.M24 = a.Mul(glhk).Sub(c.Mul(elhi)).Add(d.Mul(ekgi)).Mul(inv)
	r.M34 = a.Mul(flhj).Sub(b.Mul(elhi)).Add(d.Mul(ejfi)).Neg().Mul(inv)
	r.M44 = a.Mul(fkgj).Sub(b.Mul(ekgi)).Add(c.Mul(ejfi)).Mul(inv)

	return r, true
}

// TransformPoint applies the affine transform to a point (w = 1).
func (m Matrix4x4[T]) TransformPoint(p Vector3[T]) Vector3[T] {
	return Vector3[T]{
		X: p.X.Mul(m.M11).Add(p.Y.Mul(m.M21)).Add(p.Z.Mul(m.M31)).Add(m.M41),
		Y: p.X.Mul(m.M12).Add(p.Y.Mul(m.M22)).Add(p.Z.Mul(m.M32)).Add(m.M42),
		Z: p.X.Mul(m.M13).Add(p.Y.Mul(m.M23)).Add(p.Z.Mul(m.M33)).Add(m.M43),
	}
}

// TransformVector applies only the linear part (w = 0), ignoring translation.
func (m Matrix4x4[T]) TransformVector(v Vector3[T]) Vector3[T] {
	return Vector3[T]{
		X: v.X.Mul(m.M11).Add(v.Y.Mul(m.M21)).Add(v.Z.Mul(m.M31)),
		Y: v.X.Mul(m.M12).Add(v.Y.Mul(m.M22)).Add(v.Z.Mul(m.M32)),
		Z: v.X.Mul(m.M13).Add(v.Y.Mul(m.M23)).Add(v.Z.Mul(m.M33)),
	}
}

// Translation returns the translation row.
func (m Matrix4x4[T]) Translation() Vector3[T] {
	return Vector3[T]{X: m.M41, Y: m.M42, Z: m.M43}
}

func (m Matrix4x4[T]) IsIdentity() bool {
	return m.NearlyEquals(Matrix4x4Identity[T]())
}

func (m Matrix4x4[T]) NearlyEquals(o Matrix4x4[T]) bool {
	return m.M11.IsNearlyEqual(o.M11) && m.M12.IsNearlyEqual(o.M12) &&
		m.M13.IsNearlyEqual(o.M13) && m.M14.IsNearlyEqual(o.M14) &&
		m.M21.IsNearlyEqual(o.M21) && m.M22.IsNearlyEqual(o.M22) &&
		m.M23.IsNearlyEqual(o.M23) && m.M24.IsNearlyEqual(o.M24) &&
		m.M31.IsNearlyEqual(o.M31) && m.M32.IsNearlyEqual(o.M32) &&
		m.M33.IsNearlyEqual(o.M33) && m.M34.IsNearlyEqual(o.M34) &&
		m.M41.IsNearlyEqual(o.M41) && m.M42.IsNearlyEqual(o.M42) &&
		m.M43.IsNearlyEqual(o.M43) && m.M44.IsNearlyEqual(o.M44)
}

func (m Matrix4x4[T]) String() string {
	return fmt.Sprintf("[%s %s %s %s; %s %s %s %s; %s %s %s %s; %s %s %s %s]",
		m.M11.String(), m.M12.String(), m.M13.String(), m.M14.String(),
		m.M21.String(), m.M22.String(), m.M23.String(), m.M24.String(),
		m.M31.String(), m.M32.String(), m.M33.String(), m.M34.String(),
		m.M41.String(), m.M42.String(), m.M43.String(), m.M44.String())
}

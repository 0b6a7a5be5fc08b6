package spatial

import (
	"fmt"

	"github.com/geomsync/geomsync/internal/core/scalar"
)

// Matrix3x2 is an immutable 2D affine transform under the row-vector
// convention: points transform as (x, y, 1) * M with an implicit third
// column (0, 0, 1), and A.Mul(B) applies A first, then B.
type Matrix3x2[T scalar.Scalar[T]] struct {
	M11, M12 T
	M21, M22 T
	M31, M32 T
}

// Matrix3x2Identity returns the identity transform.
func Matrix3x2Identity[T scalar.Scalar[T]]() Matrix3x2[T] {
	one := scalar.One[T]()
	var m Matrix3x2[T]
	m.M11 = one
	m.M22 = one
	return m
}

// Matrix3x2CreateTranslation builds a translation by d.
func Matrix3x2CreateTranslation[T scalar.Scalar[T]](d Vector2[T]) Matrix3x2[T] {
	m := Matrix3x2Identity[T]()
	m.M31 = d.X
	m.M32 = d.Y
	return m
}

// Matrix3x2CreateScale builds a per-axis scale about the origin.
func Matrix3x2CreateScale[T scalar.Scalar[T]](s Vector2[T]) Matrix3x2[T] {
	var m Matrix3x2[T]
	m.M11 = s.X
	m.M22 = s.Y
	return m
}

// Matrix3x2CreateScaleUniform builds a uniform scale about the origin.
func Matrix3x2CreateScaleUniform[T scalar.Scalar[T]](s T) Matrix3x2[T] {
	return Matrix3x2CreateScale(Vector2[T]{X: s, Y: s})
}

// Matrix3x2CreateScaleAt builds a per-axis scale about a center point.
func Matrix3x2CreateScaleAt[T scalar.Scalar[T]](s Vector2[T], center Vector2[T]) Matrix3x2[T] {
	one := scalar.One[T]()
	m := Matrix3x2CreateScale(s)
	m.M31 = center.X.Mul(one.Sub(s.X))
	m.M32 = center.Y.Mul(one.Sub(s.Y))
	return m
}

// Matrix3x2CreateRotation builds a rotation by angle radians about the
// origin.
func Matrix3x2CreateRotation[T scalar.Scalar[T]](angle T) Matrix3x2[T] {
	s, c := angle.Sin(), angle.Cos()
	var m Matrix3x2[T]
	m.M11 = c
	m.M12 = s
	m.M21 = s.Neg()
	m.M22 = c
	return m
}

// Matrix3x2CreateRotationAt builds a rotation by angle radians about a
// center point.
func Matrix3x2CreateRotationAt[T scalar.Scalar[T]](angle T, center Vector2[T]) Matrix3x2[T] {
	s, c := angle.Sin(), angle.Cos()
	one := scalar.One[T]()
	m := Matrix3x2CreateRotation(angle)
	m.M31 = center.X.Mul(one.Sub(c)).Add(center.Y.Mul(s))
	m.M32 = center.Y.Mul(one.Sub(c)).Sub(center.X.Mul(s))
	return m
}

// Matrix3x2CreateSkew builds a shear by the given angles along x and y.
func Matrix3x2CreateSkew[T scalar.Scalar[T]](radiansX, radiansY T) Matrix3x2[T] {
	m := Matrix3x2Identity[T]()
	m.M12 = radiansY.Sin().Div(radiansY.Cos())
	m.M21 = radiansX.Sin().Div(radiansX.Cos())
	return m
}

// Mul composes two transforms: the receiver applies first, then o.
func (m Matrix3x2[T]) Mul(o Matrix3x2[T]) Matrix3x2[T] {
	return Matrix3x2[T]{
		M11: m.M11.Mul(o.M11).Add(m.M12.Mul(o.M21)),
		M12: m.M11.Mul(o.M12).Add(m.M12.Mul(o.M22)),
		M21: m.M21.Mul(o.M11).Add(m.M22.Mul(o.M21)),
		M22: m.M21.Mul(o.M12).Add(m.M22.Mul(o.M22)),
		M31: m.M31.Mul(o.M11).Add(m.M32.Mul(o.M21)).Add(o.M31),
		M32: m.M31.Mul(o.M12).Add(m.M32.Mul(o.M22)).Add(o.M32),
	}
}

// Determinant of the linear part.
func (m Matrix3x2[T]) Determinant() T {
	return m.M11.Mul(m.M22).Sub(m.M12.Mul(m.M21))
}

// Invert returns the inverse transform, or (identity, false) when the
// determinant is nearly zero and no inverse exists.
func (m Matrix3x2[T]) Invert() (Matrix3x2[T], bool) {
	det := m.Determinant()
	if det.IsNearlyZero() {
		return Matrix3x2Identity[T](), false
	}
	inv := scalar.One[T]().Div(det)
	return Matrix3x2[T]{
		M11: m.M22.Mul(inv),
		M12: m.M12.Neg().Mul(inv),
		M21: m.M21.Neg().Mul(inv),
		M22: m.M11.Mul(inv),
		M31: m.M21.Mul(m.M32).Sub(m.M22.Mul(m.M31)).Mul(inv),
		M32: m.M12.Mul(m.M31).Sub(m.M11.Mul(m.M32)).Mul(inv),
	}, true
}

// TransformPoint applies the full affine transform to a point.
func (m Matrix3x2[T]) TransformPoint(p Vector2[T]) Vector2[T] {
	return Vector2[T]{
		X: p.X.Mul(m.M11).Add(p.Y.Mul(m.M21)).Add(m.M31),
		Y: p.X.Mul(m.M12).Add(p.Y.Mul(m.M22)).Add(m.M32),
	}
}

// TransformVector applies only the linear part, ignoring translation.
func (m Matrix3x2[T]) TransformVector(v Vector2[T]) Vector2[T] {
	return Vector2[T]{
		X: v.X.Mul(m.M11).Add(v.Y.Mul(m.M21)),
		Y: v.X.Mul(m.M12).Add(v.Y.Mul(m.M22)),
	}
}

// Translation returns the translation row.
func (m Matrix3x2[T]) Translation() Vector2[T] {
	return Vector2[T]{X: m.M31, Y: m.M32}
}

func (m Matrix3x2[T]) IsIdentity() bool {
	return m.NearlyEquals(Matrix3x2Identity[T]())
}

func (m Matrix3x2[T]) NearlyEquals(o Matrix3x2[T]) bool {
	return m.M11.IsNearlyEqual(o.M11) && m.M12.IsNearlyEqual(o.M12) &&
		m.M21.IsNearlyEqual(o.M21) && m.M22.IsNearlyEqual(o.M22) &&
		m.M31.IsNearlyEqual(o.M31) && m.M32.IsNearlyEqual(o.M32)
}

func (m Matrix3x2[T]) String() string {
	return fmt.Sprintf("[%s %s; %s %s; %s %s]",
		m.M11.String(), m.M12.String(),
		m.M21.String(), m.M22.String(),
		m.M31.String(), m.M32.String())
}

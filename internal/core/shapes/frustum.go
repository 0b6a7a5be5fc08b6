package shapes

import (
	"fmt"

	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/spatial"
)

// Frustum is a conical frustum: a cone truncated parallel to its base. The
// bottom face sits at -height/2 and the top face at +height/2 before
// rotation. A top radius larger than the bottom one is legal and simply an
// upside-down frustum.
type Frustum[T scalar.Scalar[T]] struct {
	bottomRadius T
	topRadius    T
	height       T
	pos          spatial.Vector3[T]
	rot          spatial.Quaternion[T]
}

func NewFrustum[T scalar.Scalar[T]](bottomRadius, topRadius, height T, pos spatial.Vector3[T], rot spatial.Quaternion[T]) (Frustum[T], error) {
	if err := checkDimensions(bottomRadius, topRadius, height); err != nil {
		return Frustum[T]{}, err
	}
	if err := checkVectors(pos); err != nil {
		return Frustum[T]{}, err
	}
	return Frustum[T]{
		bottomRadius: bottomRadius,
		topRadius:    topRadius,
		height:       height,
		pos:          pos,
		rot:          normalizeRotation(rot),
	}, nil
}

func (f Frustum[T]) Kind() Kind                      { return KindFrustum }
func (f Frustum[T]) Position() spatial.Vector3[T]    { return f.pos }
func (f Frustum[T]) Rotation() spatial.Quaternion[T] { return f.rot }
func (f Frustum[T]) BottomRadius() T                 { return f.bottomRadius }
func (f Frustum[T]) TopRadius() T                    { return f.topRadius }
func (f Frustum[T]) Height() T                       { return f.height }

func (f Frustum[T]) ContainingRadius() T {
	r := scalar.Max(f.bottomRadius, f.topRadius)
	halfH := f.height.Mul(half[T]())
	return r.Mul(r).Add(halfH.Mul(halfH)).Sqrt()
}

// SmallestDimension is the smaller of the height and the narrow face's
// diameter.
func (f Frustum[T]) SmallestDimension() T {
	least := scalar.Min(f.bottomRadius, f.topRadius)
	return scalar.Min(least.Add(least), f.height)
}

func (f Frustum[T]) Volume() T {
	rb, rt := f.bottomRadius, f.topRadius
	sum := rb.Mul(rb).Add(rb.Mul(rt)).Add(rt.Mul(rt))
	return scalar.Pi[T]().Mul(f.height).Mul(sum).Div(three[T]())
}

func (f Frustum[T]) HighestPoint() spatial.Vector3[T] {
	return f.pos.Add(vertical(f.height.Mul(half[T]())))
}

func (f Frustum[T]) LowestPoint() spatial.Vector3[T] {
	return f.pos.Sub(vertical(f.height.Mul(half[T]())))
}

func (f Frustum[T]) IsPointWithin(p spatial.Vector3[T]) bool {
	local := toLocal(p, f.pos, f.rot)
	halfH := f.height.Mul(half[T]())
	if !lessEq(local.Y.Abs(), halfH) {
		return false
	}
	radial := local.X.Mul(local.X).Add(local.Z.Mul(local.Z)).Sqrt()
	if f.height.IsNearlyZero() {
		return lessEq(radial, scalar.Max(f.bottomRadius, f.topRadius))
	}
	// allowed radius interpolates linearly from bottom to top
	t := local.Y.Add(halfH).Div(f.height)
	allowed := f.bottomRadius.Add(f.topRadius.Sub(f.bottomRadius).Mul(t))
	return lessEq(radial, allowed)
}

func (f Frustum[T]) ScaleByDimension(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return Frustum[T]{
		bottomRadius: f.bottomRadius.Mul(factor),
		topRadius:    f.topRadius.Mul(factor),
		height:       f.height.Mul(factor),
		pos:          f.pos,
		rot:          f.rot,
	}, nil
}

func (f Frustum[T]) ScaleVolume(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return f.ScaleByDimension(dimensionFactor(factor))
}

func (f Frustum[T]) CloneAt(pos spatial.Vector3[T]) Shape[T] {
	clone := f
	clone.pos = pos
	return clone
}

func (f Frustum[T]) CloneRotated(rot spatial.Quaternion[T]) Shape[T] {
	clone := f
	clone.rot = normalizeRotation(rot)
	return clone
}

func (f Frustum[T]) String() string {
	return fmt.Sprintf("frustum(bottom=%s, top=%s, height=%s) at %s",
		f.bottomRadius, f.topRadius, f.height, f.pos)
}

var _ Shape[scalar.Float64] = Frustum[scalar.Float64]{}

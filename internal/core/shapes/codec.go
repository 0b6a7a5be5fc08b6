package shapes

import (
	"encoding/json"
	"fmt"

	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/spatial"
)

// The wire format tags every shape with its integer kind and lists the
// remaining fields in the canonical per-kind order. Scalars travel as JSON
// number literals rendered by the scalar's exact String and parsed back with
// FromString, so a decoded shape reproduces the encoded one bit for bit on
// every backend, including precision beyond float64. The codec stays on
// encoding/json because it needs RawMessage passthrough to keep those
// literals untouched; the speed-oriented encoders do not guarantee that.

type vectorDTO struct {
	X json.RawMessage `json:"x"`
	Y json.RawMessage `json:"y"`
	Z json.RawMessage `json:"z"`
}

type rotationDTO struct {
	X json.RawMessage `json:"x"`
	Y json.RawMessage `json:"y"`
	Z json.RawMessage `json:"z"`
	W json.RawMessage `json:"w"`
}

type pointDTO struct {
	Kind     Kind      `json:"kind"`
	Position vectorDTO `json:"position"`
}

type lineDTO struct {
	Kind     Kind      `json:"kind"`
	Axis     vectorDTO `json:"axis"`
	Position vectorDTO `json:"position"`
}

type sphereDTO struct {
	Kind     Kind            `json:"kind"`
	Radius   json.RawMessage `json:"radius"`
	Position vectorDTO       `json:"position"`
}

type hollowSphereDTO struct {
	Kind        Kind            `json:"kind"`
	InnerRadius json.RawMessage `json:"inner_radius"`
	OuterRadius json.RawMessage `json:"outer_radius"`
	Position    vectorDTO       `json:"position"`
}

type capsuleDTO struct {
	Kind     Kind            `json:"kind"`
	Axis     vectorDTO       `json:"axis"`
	Radius   json.RawMessage `json:"radius"`
	Position vectorDTO       `json:"position"`
}

type cuboidDTO struct {
	Kind       Kind        `json:"kind"`
	Dimensions vectorDTO   `json:"dimensions"`
	Position   vectorDTO   `json:"position"`
	Rotation   rotationDTO `json:"rotation"`
}

type cylinderDTO struct {
	Kind     Kind            `json:"kind"`
	Radius   json.RawMessage `json:"radius"`
	Height   json.RawMessage `json:"height"`
	Position vectorDTO       `json:"position"`
	Rotation rotationDTO     `json:"rotation"`
}

type coneDTO struct {
	Kind     Kind            `json:"kind"`
	Radius   json.RawMessage `json:"radius"`
	Height   json.RawMessage `json:"height"`
	Position vectorDTO       `json:"position"`
	Rotation rotationDTO     `json:"rotation"`
}

type ellipsoidDTO struct {
	Kind     Kind        `json:"kind"`
	Radii    vectorDTO   `json:"radii"`
	Position vectorDTO   `json:"position"`
	Rotation rotationDTO `json:"rotation"`
}

type frustumDTO struct {
	Kind         Kind            `json:"kind"`
	BottomRadius json.RawMessage `json:"bottom_radius"`
	TopRadius    json.RawMessage `json:"top_radius"`
	Height       json.RawMessage `json:"height"`
	Position     vectorDTO       `json:"position"`
	Rotation     rotationDTO     `json:"rotation"`
}

type torusDTO struct {
	Kind        Kind            `json:"kind"`
	InnerRadius json.RawMessage `json:"inner_radius"`
	OuterRadius json.RawMessage `json:"outer_radius"`
	Position    vectorDTO       `json:"position"`
	Rotation    rotationDTO     `json:"rotation"`
}

// Encode serializes a shape into the tagged wire form.
func Encode[T scalar.Scalar[T]](s Shape[T]) ([]byte, error) {
	if s == nil {
		return nil, ErrMalformedShape
	}
	switch v := s.(type) {
	case Point[T]:
		pos, err := vectorOut(v.Position())
		if err != nil {
			return nil, err
		}
		return json.Marshal(pointDTO{Kind: KindPoint, Position: pos})
	case Line[T]:
		axis, err := vectorOut(v.Axis())
		if err != nil {
			return nil, err
		}
		pos, err := vectorOut(v.Position())
		if err != nil {
			return nil, err
		}
		return json.Marshal(lineDTO{Kind: KindLine, Axis: axis, Position: pos})
	case Sphere[T]:
		radius, err := rawNumber(v.Radius())
		if err != nil {
			return nil, err
		}
		pos, err := vectorOut(v.Position())
		if err != nil {
			return nil, err
		}
		return json.Marshal(sphereDTO{Kind: KindSphere, Radius: radius, Position: pos})
	case HollowSphere[T]:
		inner, err := rawNumber(v.InnerRadius())
		if err != nil {
			return nil, err
		}
		outer, err := rawNumber(v.OuterRadius())
		if err != nil {
			return nil, err
		}
		pos, err := vectorOut(v.Position())
		if err != nil {
			return nil, err
		}
		return json.Marshal(hollowSphereDTO{
			Kind: KindHollowSphere, InnerRadius: inner, OuterRadius: outer, Position: pos,
		})
	case Capsule[T]:
		axis, err := vectorOut(v.Axis())
		if err != nil {
			return nil, err
		}
		radius, err := rawNumber(v.Radius())
		if err != nil {
			return nil, err
		}
		pos, err := vectorOut(v.Position())
		if err != nil {
			return nil, err
		}
		return json.Marshal(capsuleDTO{Kind: KindCapsule, Axis: axis, Radius: radius, Position: pos})
	case Cuboid[T]:
		dims, err := vectorOut(v.Dimensions())
		if err != nil {
			return nil, err
		}
		pos, err := vectorOut(v.Position())
		if err != nil {
			return nil, err
		}
		rot, err := rotationOut(v.Rotation())
		if err != nil {
			return nil, err
		}
		return json.Marshal(cuboidDTO{Kind: KindCuboid, Dimensions: dims, Position: pos, Rotation: rot})
	case Cylinder[T]:
		return encodeRound(KindCylinder, v.Radius(), v.Height(), v.Position(), v.Rotation())
	case Cone[T]:
		return encodeRound(KindCone, v.Radius(), v.Height(), v.Position(), v.Rotation())
	case Ellipsoid[T]:
		radii, err := vectorOut(v.Radii())
		if err != nil {
			return nil, err
		}
		pos, err := vectorOut(v.Position())
		if err != nil {
			return nil, err
		}
		rot, err := rotationOut(v.Rotation())
		if err != nil {
			return nil, err
		}
		return json.Marshal(ellipsoidDTO{Kind: KindEllipsoid, Radii: radii, Position: pos, Rotation: rot})
	case Frustum[T]:
		bottom, err := rawNumber(v.BottomRadius())
		if err != nil {
			return nil, err
		}
		top, err := rawNumber(v.TopRadius())
		if err != nil {
			return nil, err
		}
		height, err := rawNumber(v.Height())
		if err != nil {
			return nil, err
		}
		pos, err := vectorOut(v.Position())
		if err != nil {
			return nil, err
		}
		rot, err := rotationOut(v.Rotation())
		if err != nil {
			return nil, err
		}
		return json.Marshal(frustumDTO{
			Kind: KindFrustum, BottomRadius: bottom, TopRadius: top,
			Height: height, Position: pos, Rotation: rot,
		})
	case Torus[T]:
		inner, err := rawNumber(v.InnerRadius())
		if err != nil {
			return nil, err
		}
		outer, err := rawNumber(v.OuterRadius())
		if err != nil {
			return nil, err
		}
		pos, err := vectorOut(v.Position())
		if err != nil {
			return nil, err
		}
		rot, err := rotationOut(v.Rotation())
		if err != nil {
			return nil, err
		}
		return json.Marshal(torusDTO{
			Kind: KindTorus, InnerRadius: inner, OuterRadius: outer, Position: pos, Rotation: rot,
		})
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, s.Kind())
}

// encodeRound covers the cylinder and cone layouts, which share fields.
func encodeRound[T scalar.Scalar[T]](kind Kind, radius, height T, pos spatial.Vector3[T], rot spatial.Quaternion[T]) ([]byte, error) {
	r, err := rawNumber(radius)
	if err != nil {
		return nil, err
	}
	h, err := rawNumber(height)
	if err != nil {
		return nil, err
	}
	p, err := vectorOut(pos)
	if err != nil {
		return nil, err
	}
	q, err := rotationOut(rot)
	if err != nil {
		return nil, err
	}
	if kind == KindCone {
		return json.Marshal(coneDTO{Kind: kind, Radius: r, Height: h, Position: p, Rotation: q})
	}
	return json.Marshal(cylinderDTO{Kind: kind, Radius: r, Height: h, Position: p, Rotation: q})
}

// Decode parses the tagged wire form back into a shape. The parameters pass
// through the validating constructors, so malformed geometry is rejected.
func Decode[T scalar.Scalar[T]](data []byte) (Shape[T], error) {
	var env struct {
		Kind *Kind `json:"kind"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedShape, err)
	}
	if env.Kind == nil {
		return nil, fmt.Errorf("%w: missing kind", ErrMalformedShape)
	}
	if !env.Kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, *env.Kind)
	}

	switch *env.Kind {
	case KindPoint:
		var dto pointDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedShape, err)
		}
		pos, err := vectorIn[T](dto.Position)
		if err != nil {
			return nil, err
		}
		return constructed[T](NewPoint(pos))
	case KindLine:
		var dto lineDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedShape, err)
		}
		axis, err := vectorIn[T](dto.Axis)
		if err != nil {
			return nil, err
		}
		pos, err := vectorIn[T](dto.Position)
		if err != nil {
			return nil, err
		}
		return constructed[T](NewLine(axis, pos))
	case KindSphere:
		var dto sphereDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedShape, err)
		}
		radius, err := scalarIn[T](dto.Radius)
		if err != nil {
			return nil, err
		}
		pos, err := vectorIn[T](dto.Position)
		if err != nil {
			return nil, err
		}
		return constructed[T](NewSphere(radius, pos))
	case KindHollowSphere:
		var dto hollowSphereDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedShape, err)
		}
		inner, err := scalarIn[T](dto.InnerRadius)
		if err != nil {
			return nil, err
		}
		outer, err := scalarIn[T](dto.OuterRadius)
		if err != nil {
			return nil, err
		}
		pos, err := vectorIn[T](dto.Position)
		if err != nil {
			return nil, err
		}
		return constructed[T](NewHollowSphere(inner, outer, pos))
	case KindCapsule:
		var dto capsuleDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedShape, err)
		}
		axis, err := vectorIn[T](dto.Axis)
		if err != nil {
			return nil, err
		}
		radius, err := scalarIn[T](dto.Radius)
		if err != nil {
			return nil, err
		}
		pos, err := vectorIn[T](dto.Position)
		if err != nil {
			return nil, err
		}
		return constructed[T](NewCapsule(axis, radius, pos))
	case KindCuboid:
		var dto cuboidDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedShape, err)
		}
		dims, err := vectorIn[T](dto.Dimensions)
		if err != nil {
			return nil, err
		}
		pos, err := vectorIn[T](dto.Position)
		if err != nil {
			return nil, err
		}
		rot, err := rotationIn[T](dto.Rotation)
		if err != nil {
			return nil, err
		}
		return constructed[T](NewCuboid(dims, pos, rot))
	case KindCylinder:
		var dto cylinderDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedShape, err)
		}
		return decodeRound[T](KindCylinder, dto.Radius, dto.Height, dto.Position, dto.Rotation)
	case KindCone:
		var dto coneDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedShape, err)
		}
		return decodeRound[T](KindCone, dto.Radius, dto.Height, dto.Position, dto.Rotation)
	case KindEllipsoid:
		var dto ellipsoidDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedShape, err)
		}
		radii, err := vectorIn[T](dto.Radii)
		if err != nil {
			return nil, err
		}
		pos, err := vectorIn[T](dto.Position)
		if err != nil {
			return nil, err
		}
		rot, err := rotationIn[T](dto.Rotation)
		if err != nil {
			return nil, err
		}
		return constructed[T](NewEllipsoid(radii, pos, rot))
	case KindFrustum:
		var dto frustumDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedShape, err)
		}
		bottom, err := scalarIn[T](dto.BottomRadius)
		if err != nil {
			return nil, err
		}
		top, err := scalarIn[T](dto.TopRadius)
		if err != nil {
			return nil, err
		}
		height, err := scalarIn[T](dto.Height)
		if err != nil {
			return nil, err
		}
		pos, err := vectorIn[T](dto.Position)
		if err != nil {
			return nil, err
		}
		rot, err := rotationIn[T](dto.Rotation)
		if err != nil {
			return nil, err
		}
		return constructed[T](NewFrustum(bottom, top, height, pos, rot))
	case KindTorus:
		var dto torusDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedShape, err)
		}
		inner, err := scalarIn[T](dto.InnerRadius)
		if err != nil {
			return nil, err
		}
		outer, err := scalarIn[T](dto.OuterRadius)
		if err != nil {
			return nil, err
		}
		pos, err := vectorIn[T](dto.Position)
		if err != nil {
			return nil, err
		}
		rot, err := rotationIn[T](dto.Rotation)
		if err != nil {
			return nil, err
		}
		return constructed[T](NewTorus(inner, outer, pos, rot))
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownKind, *env.Kind)
}

func decodeRound[T scalar.Scalar[T]](kind Kind, rawRadius, rawHeight json.RawMessage, rawPos vectorDTO, rawRot rotationDTO) (Shape[T], error) {
	radius, err := scalarIn[T](rawRadius)
	if err != nil {
		return nil, err
	}
	height, err := scalarIn[T](rawHeight)
	if err != nil {
		return nil, err
	}
	pos, err := vectorIn[T](rawPos)
	if err != nil {
		return nil, err
	}
	rot, err := rotationIn[T](rawRot)
	if err != nil {
		return nil, err
	}
	if kind == KindCone {
		return constructed[T](NewCone(radius, height, pos, rot))
	}
	return constructed[T](NewCylinder(radius, height, pos, rot))
}

// constructed wraps constructor failures as malformed wire data while
// keeping the cause inspectable.
func constructed[T scalar.Scalar[T], S Shape[T]](s S, err error) (Shape[T], error) {
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedShape, err)
	}
	return s, nil
}

func rawNumber[T scalar.Scalar[T]](v T) (json.RawMessage, error) {
	s := v.String()
	if len(s) == 0 || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return nil, fmt.Errorf("%w: scalar %q is not a JSON number", ErrMalformedShape, s)
	}
	return json.RawMessage(s), nil
}

func scalarIn[T scalar.Scalar[T]](raw json.RawMessage) (T, error) {
	if len(raw) == 0 {
		return scalar.Zero[T](), nil
	}
	v, err := scalar.Parse[T](string(raw))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrMalformedShape, err)
	}
	return v, nil
}

func vectorOut[T scalar.Scalar[T]](v spatial.Vector3[T]) (vectorDTO, error) {
	x, err := rawNumber(v.X)
	if err != nil {
		return vectorDTO{}, err
	}
	y, err := rawNumber(v.Y)
	if err != nil {
		return vectorDTO{}, err
	}
	z, err := rawNumber(v.Z)
	if err != nil {
		return vectorDTO{}, err
	}
	return vectorDTO{X: x, Y: y, Z: z}, nil
}

func vectorIn[T scalar.Scalar[T]](d vectorDTO) (spatial.Vector3[T], error) {
	x, err := scalarIn[T](d.X)
	if err != nil {
		return spatial.Vector3[T]{}, err
	}
	y, err := scalarIn[T](d.Y)
	if err != nil {
		return spatial.Vector3[T]{}, err
	}
	z, err := scalarIn[T](d.Z)
	if err != nil {
		return spatial.Vector3[T]{}, err
	}
	return spatial.NewVector3(x, y, z), nil
}

func rotationOut[T scalar.Scalar[T]](q spatial.Quaternion[T]) (rotationDTO, error) {
	x, err := rawNumber(q.X)
	if err != nil {
		return rotationDTO{}, err
	}
	y, err := rawNumber(q.Y)
	if err != nil {
		return rotationDTO{}, err
	}
	z, err := rawNumber(q.Z)
	if err != nil {
		return rotationDTO{}, err
	}
	w, err := rawNumber(q.W)
	if err != nil {
		return rotationDTO{}, err
	}
	return rotationDTO{X: x, Y: y, Z: z, W: w}, nil
}

func rotationIn[T scalar.Scalar[T]](d rotationDTO) (spatial.Quaternion[T], error) {
	x, err := scalarIn[T](d.X)
	if err != nil {
		return spatial.Quaternion[T]{}, err
	}
	y, err := scalarIn[T](d.Y)
	if err != nil {
		return spatial.Quaternion[T]{}, err
	}
	z, err := scalarIn[T](d.Z)
	if err != nil {
		return spatial.Quaternion[T]{}, err
	}
	w, err := scalarIn[T](d.W)
	if err != nil {
		return spatial.Quaternion[T]{}, err
	}
	return spatial.NewQuaternion(x, y, z, w), nil
}

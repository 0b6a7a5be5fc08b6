package world

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"github.com/geomsync/geomsync/internal/core/observability/log"
	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/shapes"
	"github.com/geomsync/geomsync/internal/core/spatial"
)

// Scene is a human-authored world description. Values are plain float64; the
// registry converts them to its scalar backend on load.
type Scene struct {
	Name     string        `json:"name" yaml:"name"`
	Entities []SceneEntity `json:"entities" yaml:"entities"`
}

type SceneEntity struct {
	Name  string     `json:"name" yaml:"name"`
	Tags  []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	Shape SceneShape `json:"shape" yaml:"shape"`
}

// SceneShape is the union of every kind's fields; Kind selects which ones
// apply. Kind names match shapes.Kind.String().
type SceneShape struct {
	Kind     string     `json:"kind" yaml:"kind"`
	Position SceneVec   `json:"position" yaml:"position"`
	Rotation *SceneQuat `json:"rotation,omitempty" yaml:"rotation,omitempty"`

	Axis         *SceneVec `json:"axis,omitempty" yaml:"axis,omitempty"`
	Radius       float64   `json:"radius,omitempty" yaml:"radius,omitempty"`
	InnerRadius  float64   `json:"inner_radius,omitempty" yaml:"inner_radius,omitempty"`
	OuterRadius  float64   `json:"outer_radius,omitempty" yaml:"outer_radius,omitempty"`
	Height       float64   `json:"height,omitempty" yaml:"height,omitempty"`
	BottomRadius float64   `json:"bottom_radius,omitempty" yaml:"bottom_radius,omitempty"`
	TopRadius    float64   `json:"top_radius,omitempty" yaml:"top_radius,omitempty"`
	Dimensions   *SceneVec `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Radii        *SceneVec `json:"radii,omitempty" yaml:"radii,omitempty"`
}

type SceneVec struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

type SceneQuat struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
	W float64 `json:"w" yaml:"w"`
}

// LoadSceneJSON loads a scene from a JSON reader.
func LoadSceneJSON(r io.Reader) (*Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	var s Scene
	if err = sonic.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &s, nil
}

// LoadSceneYAML loads a scene from a YAML reader.
func LoadSceneYAML(r io.Reader) (*Scene, error) {
	var s Scene
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &s, nil
}

// LoadSceneFile loads a scene picking the format from the file extension.
// .yaml and .yml parse as YAML, everything else as JSON.
func LoadSceneFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadSceneYAML(f)
	default:
		return LoadSceneJSON(f)
	}
}

// Populate registers every scene entity. Entities added before a failing
// entry stay registered; the error names the entry that failed.
func (r *Registry[T]) Populate(scene *Scene) ([]Entity[T], error) {
	added := make([]Entity[T], 0, len(scene.Entities))
	for i, se := range scene.Entities {
		shape, err := buildShape[T](se.Shape)
		if err != nil {
			return added, fmt.Errorf("scene entity %d (%s): %w", i, se.Name, err)
		}
		e, err := r.Add(se.Name, se.Tags, shape)
		if err != nil {
			return added, fmt.Errorf("scene entity %d (%s): %w", i, se.Name, err)
		}
		added = append(added, e)
	}
	r.log.Info("scene loaded",
		log.String("scene", scene.Name),
		log.Int("entities", len(added)),
	)
	return added, nil
}

func buildShape[T scalar.Scalar[T]](s SceneShape) (shapes.Shape[T], error) {
	pos := vecFrom[T](s.Position)
	rot := quatFrom[T](s.Rotation)

	switch s.Kind {
	case shapes.KindPoint.String():
		return shapes.NewPoint(pos)
	case shapes.KindLine.String():
		if s.Axis == nil {
			return nil, fmt.Errorf("line: missing axis")
		}
		return shapes.NewLine(vecFrom[T](*s.Axis), pos)
	case shapes.KindSphere.String():
		return shapes.NewSphere(scalar.FromFloat[T](s.Radius), pos)
	case shapes.KindHollowSphere.String():
		return shapes.NewHollowSphere(scalar.FromFloat[T](s.InnerRadius), scalar.FromFloat[T](s.OuterRadius), pos)
	case shapes.KindCapsule.String():
		if s.Axis == nil {
			return nil, fmt.Errorf("capsule: missing axis")
		}
		return shapes.NewCapsule(vecFrom[T](*s.Axis), scalar.FromFloat[T](s.Radius), pos)
	case shapes.KindCuboid.String():
		if s.Dimensions == nil {
			return nil, fmt.Errorf("cuboid: missing dimensions")
		}
		return shapes.NewCuboid(vecFrom[T](*s.Dimensions), pos, rot)
	case shapes.KindCylinder.String():
		return shapes.NewCylinder(scalar.FromFloat[T](s.Radius), scalar.FromFloat[T](s.Height), pos, rot)
	case shapes.KindCone.String():
		return shapes.NewCone(scalar.FromFloat[T](s.Radius), scalar.FromFloat[T](s.Height), pos, rot)
	case shapes.KindEllipsoid.String():
		if s.Radii == nil {
			return nil, fmt.Errorf("ellipsoid: missing radii")
		}
		return shapes.NewEllipsoid(vecFrom[T](*s.Radii), pos, rot)
	case shapes.KindFrustum.String():
		return shapes.NewFrustum(scalar.FromFloat[T](s.BottomRadius), scalar.FromFloat[T](s.TopRadius), scalar.FromFloat[T](s.Height), pos, rot)
	case shapes.KindTorus.String():
		return shapes.NewTorus(scalar.FromFloat[T](s.InnerRadius), scalar.FromFloat[T](s.OuterRadius), pos, rot)
	default:
		return nil, fmt.Errorf("unknown shape kind %q", s.Kind)
	}
}

func vecFrom[T scalar.Scalar[T]](v SceneVec) spatial.Vector3[T] {
	return spatial.Vector3From[T](v.X, v.Y, v.Z)
}

// quatFrom converts an optional rotation; nil means identity by way of the
// constructors' zero-rotation normalization.
func quatFrom[T scalar.Scalar[T]](q *SceneQuat) spatial.Quaternion[T] {
	if q == nil {
		return spatial.Quaternion[T]{}
	}
	return spatial.NewQuaternion(
		scalar.FromFloat[T](q.X),
		scalar.FromFloat[T](q.Y),
		scalar.FromFloat[T](q.Z),
		scalar.FromFloat[T](q.W),
	)
}

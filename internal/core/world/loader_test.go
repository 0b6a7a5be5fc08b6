package world

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geomsync/geomsync/internal/core/shapes"
	"github.com/geomsync/geomsync/internal/core/spatial"
)

const sceneYAML = `name: arena
entities:
  - name: floor
    tags: [static]
    shape:
      kind: cuboid
      position: {x: 0, y: -1, z: 0}
      dimensions: {x: 20, y: 2, z: 20}
  - name: gate
    shape:
      kind: cuboid
      position: {x: 10, y: 2, z: 0}
      dimensions: {x: 4, y: 4, z: 1}
      rotation: {x: 0, y: 0.7071067811865476, z: 0, w: 0.7071067811865476}
  - name: guard
    shape:
      kind: capsule
      axis: {x: 0, y: 2, z: 0}
      radius: 0.5
      position: {x: 2, y: 1, z: 2}
  - name: orb
    shape:
      kind: sphere
      radius: 2.5
      position: {x: -3, y: 1, z: 0}
`

const sceneJSON = `{
  "name": "mini",
  "entities": [
    {"name": "orb", "shape": {"kind": "sphere", "radius": 2, "position": {"x": 1, "y": 0, "z": 0}}}
  ]
}`

func TestLoadSceneYAML(t *testing.T) {
	scene, err := LoadSceneYAML(strings.NewReader(sceneYAML))
	require.NoError(t, err)
	if scene.Name != "arena" {
		t.Fatalf("scene name = %q, want arena", scene.Name)
	}
	require.Len(t, scene.Entities, 4)

	reg := newRegistry(t)
	added, err := reg.Populate(scene)
	require.NoError(t, err)
	require.Len(t, added, 4)
	if reg.Len() != 4 {
		t.Fatalf("Len = %d, want 4", reg.Len())
	}

	floor := added[0]
	if floor.Name != "floor" || len(floor.Tags) != 1 || floor.Tags[0] != "static" {
		t.Errorf("floor entity = %+v", floor)
	}
	if floor.Shape.Kind() != shapes.KindCuboid {
		t.Errorf("floor kind = %v, want cuboid", floor.Shape.Kind())
	}
	if !floor.Shape.Position().NearlyEquals(v3(0, -1, 0)) {
		t.Errorf("floor position = %v, want (0, -1, 0)", floor.Shape.Position())
	}
	if !floor.Shape.Rotation().IsIdentity() {
		t.Errorf("floor rotation = %v, want identity", floor.Shape.Rotation())
	}

	gate := added[1]
	quarter := spatial.QuaternionFromAxisAngle(spatial.UnitY[f64](), sc(math.Pi/2))
	if !gate.Shape.Rotation().SameRotation(quarter) {
		t.Errorf("gate rotation = %v, want 90 degrees about y", gate.Shape.Rotation())
	}

	guard := added[2]
	if guard.Shape.Kind() != shapes.KindCapsule {
		t.Errorf("guard kind = %v, want capsule", guard.Shape.Kind())
	}
	if !guard.Shape.ContainingRadius().IsNearlyEqual(sc(1.5)) {
		t.Errorf("guard containing radius = %v, want 1.5", guard.Shape.ContainingRadius())
	}

	orb := added[3]
	if !orb.Shape.ContainingRadius().IsNearlyEqual(sc(2.5)) {
		t.Errorf("orb radius = %v, want 2.5", orb.Shape.ContainingRadius())
	}
}

func TestLoadSceneJSON(t *testing.T) {
	scene, err := LoadSceneJSON(strings.NewReader(sceneJSON))
	require.NoError(t, err)
	if scene.Name != "mini" {
		t.Fatalf("scene name = %q, want mini", scene.Name)
	}

	reg := newRegistry(t)
	added, err := reg.Populate(scene)
	require.NoError(t, err)
	require.Len(t, added, 1)
	if added[0].Shape.Kind() != shapes.KindSphere {
		t.Errorf("kind = %v, want sphere", added[0].Shape.Kind())
	}
}

func TestLoadSceneFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(sceneYAML), 0o644))
	jsonPath := filepath.Join(dir, "scene.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(sceneJSON), 0o644))

	scene, err := LoadSceneFile(yamlPath)
	require.NoError(t, err)
	if scene.Name != "arena" {
		t.Errorf("yaml scene name = %q, want arena", scene.Name)
	}

	scene, err = LoadSceneFile(jsonPath)
	require.NoError(t, err)
	if scene.Name != "mini" {
		t.Errorf("json scene name = %q, want mini", scene.Name)
	}

	if _, err = LoadSceneFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file: expected error")
	}
}

func TestLoadSceneMalformed(t *testing.T) {
	if _, err := LoadSceneJSON(strings.NewReader(`{"entities": [`)); err == nil {
		t.Error("truncated JSON: expected error")
	}
	if _, err := LoadSceneYAML(strings.NewReader("entities: {broken")); err == nil {
		t.Error("broken YAML: expected error")
	}
}

func TestPopulateErrors(t *testing.T) {
	t.Run("unknown kind", func(t *testing.T) {
		reg := newRegistry(t)
		scene := &Scene{Entities: []SceneEntity{
			{Name: "ok", Shape: SceneShape{Kind: "sphere", Radius: 1}},
			{Name: "bad", Shape: SceneShape{Kind: "blob"}},
		}}
		added, err := reg.Populate(scene)
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), `unknown shape kind "blob"`) {
			t.Errorf("err = %v, want unknown kind message", err)
		}
		if !strings.Contains(err.Error(), "scene entity 1 (bad)") {
			t.Errorf("err = %v, want entry name in message", err)
		}
		// The valid entry before the failure stays registered.
		if len(added) != 1 || reg.Len() != 1 {
			t.Errorf("added = %d, Len = %d; want 1 and 1", len(added), reg.Len())
		}
	})

	t.Run("invalid dimensions", func(t *testing.T) {
		reg := newRegistry(t)
		scene := &Scene{Entities: []SceneEntity{
			{Name: "dent", Shape: SceneShape{Kind: "sphere", Radius: -1}},
		}}
		_, err := reg.Populate(scene)
		if !errors.Is(err, shapes.ErrNegativeDimension) {
			t.Errorf("err = %v, want ErrNegativeDimension", err)
		}
	})

	t.Run("missing axis", func(t *testing.T) {
		reg := newRegistry(t)
		scene := &Scene{Entities: []SceneEntity{
			{Name: "limb", Shape: SceneShape{Kind: "capsule", Radius: 1}},
		}}
		_, err := reg.Populate(scene)
		if err == nil || !strings.Contains(err.Error(), "missing axis") {
			t.Errorf("err = %v, want missing axis", err)
		}
	})

	t.Run("missing dimensions vector", func(t *testing.T) {
		reg := newRegistry(t)
		scene := &Scene{Entities: []SceneEntity{
			{Name: "box", Shape: SceneShape{Kind: "cuboid"}},
		}}
		_, err := reg.Populate(scene)
		if err == nil || !strings.Contains(err.Error(), "missing dimensions") {
			t.Errorf("err = %v, want missing dimensions", err)
		}
	})
}

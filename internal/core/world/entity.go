package world

import (
	"errors"

	"github.com/google/uuid"

	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/shapes"
	"github.com/geomsync/geomsync/internal/core/spatial"
)

var (
	ErrEntityNotFound = errors.New("world: entity not found")
	ErrNilShape       = errors.New("world: nil shape")
)

// EntityID uniquely identifies a registered entity.
type EntityID string

// GenerateEntityID generates a unique entity ID.
func GenerateEntityID() EntityID {
	return EntityID(uuid.NewString())
}

// Entity is a named shape registered in the world. Values are snapshots;
// mutating ops return the updated entity rather than changing one in place.
type Entity[T scalar.Scalar[T]] struct {
	ID    EntityID
	Name  string
	Tags  []string
	Shape shapes.Shape[T]
}

// SweepHit is one result of a sweep query: the entity hit, the mover center
// position at first touch, and the distance travelled to reach it.
type SweepHit[T scalar.Scalar[T]] struct {
	Entity   Entity[T]
	At       spatial.Vector3[T]
	Distance T
}

// Package world keeps the live registry of named shapes and answers spatial
// queries against it. The registry is sharded by entity ID so queries fan out
// across shards concurrently while writers touch a single shard.
package world

import (
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/geomsync/geomsync/internal/core/events"
	"github.com/geomsync/geomsync/internal/core/observability/log"
	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/shapes"
	"github.com/geomsync/geomsync/internal/core/spatial"
	"github.com/geomsync/geomsync/pkg/concurrent"
	"github.com/geomsync/geomsync/pkg/sequence"
)

// Config controls registry sharding.
type Config struct {
	// Shards is rounded up to the next power of two.
	Shards int `yaml:"shards" json:"shards"`
}

func DefaultConfig() Config {
	return Config{Shards: 16}
}

type shard[T scalar.Scalar[T]] struct {
	mu       sync.RWMutex
	entities map[EntityID]Entity[T]
}

// Registry is the in-memory entity store. All methods are safe for
// concurrent use. The bus and logger may be nil.
type Registry[T scalar.Scalar[T]] struct {
	shards  []shard[T]
	mask    uint64
	indexes []int

	bus *events.Bus
	log log.Log
}

// New creates an empty registry.
func New[T scalar.Scalar[T]](cfg Config, bus *events.Bus, logger log.Log) *Registry[T] {
	count := cfg.Shards
	if count <= 0 {
		count = DefaultConfig().Shards
	}
	if count&(count-1) != 0 {
		count = nextPowerOf2(count)
	}
	if logger == nil {
		logger = log.NewNop()
	}

	shards := make([]shard[T], count)
	indexes := make([]int, count)
	for i := range shards {
		shards[i].entities = make(map[EntityID]Entity[T])
		indexes[i] = i
	}

	return &Registry[T]{
		shards:  shards,
		mask:    uint64(count - 1),
		indexes: indexes,
		bus:     bus,
		log:     logger,
	}
}

func (r *Registry[T]) getShard(id EntityID) *shard[T] {
	hash := xxhash.Sum64String(string(id))
	return &r.shards[hash&r.mask]
}

func (r *Registry[T]) publish(t events.Type, id EntityID, other EntityID) {
	if r.bus == nil {
		return
	}
	r.bus.Publish(events.Event{Type: t, EntityID: string(id), OtherID: string(other)})
}

// Add registers the shape under a fresh ID and returns the stored entity.
func (r *Registry[T]) Add(name string, tags []string, shape shapes.Shape[T]) (Entity[T], error) {
	if shape == nil {
		return Entity[T]{}, ErrNilShape
	}

	e := Entity[T]{
		ID:    GenerateEntityID(),
		Name:  name,
		Tags:  append([]string(nil), tags...),
		Shape: shape,
	}

	sd := r.getShard(e.ID)
	sd.mu.Lock()
	sd.entities[e.ID] = e
	sd.mu.Unlock()

	r.publish(events.EntityAdded, e.ID, "")
	r.log.Debug("entity added",
		log.String("entity_id", string(e.ID)),
		log.String("name", e.Name),
		log.String("kind", e.Shape.Kind().String()),
	)
	return e, nil
}

// Get returns the entity registered under id.
func (r *Registry[T]) Get(id EntityID) (Entity[T], error) {
	sd := r.getShard(id)
	sd.mu.RLock()
	e, ok := sd.entities[id]
	sd.mu.RUnlock()
	if !ok {
		return Entity[T]{}, fmt.Errorf("%w: %s", ErrEntityNotFound, id)
	}
	return e, nil
}

// Remove unregisters the entity and returns its last state.
func (r *Registry[T]) Remove(id EntityID) (Entity[T], error) {
	sd := r.getShard(id)
	sd.mu.Lock()
	e, ok := sd.entities[id]
	if ok {
		delete(sd.entities, id)
	}
	sd.mu.Unlock()
	if !ok {
		return Entity[T]{}, fmt.Errorf("%w: %s", ErrEntityNotFound, id)
	}

	r.publish(events.EntityRemoved, id, "")
	r.log.Debug("entity removed", log.String("entity_id", string(id)))
	return e, nil
}

// MoveTo re-centers the entity's shape at pos.
func (r *Registry[T]) MoveTo(id EntityID, pos spatial.Vector3[T]) (Entity[T], error) {
	return r.update(id, events.EntityMoved, func(s shapes.Shape[T]) (shapes.Shape[T], error) {
		return s.CloneAt(pos), nil
	})
}

// RotateTo re-orients the entity's shape.
func (r *Registry[T]) RotateTo(id EntityID, rot spatial.Quaternion[T]) (Entity[T], error) {
	return r.update(id, events.EntityMoved, func(s shapes.Shape[T]) (shapes.Shape[T], error) {
		return s.CloneRotated(rot), nil
	})
}

// Scale multiplies every linear dimension of the entity's shape by factor.
func (r *Registry[T]) Scale(id EntityID, factor T) (Entity[T], error) {
	return r.update(id, events.EntityMoved, func(s shapes.Shape[T]) (shapes.Shape[T], error) {
		return s.ScaleByDimension(factor)
	})
}

func (r *Registry[T]) update(id EntityID, t events.Type, mutate func(shapes.Shape[T]) (shapes.Shape[T], error)) (Entity[T], error) {
	sd := r.getShard(id)
	sd.mu.Lock()
	e, ok := sd.entities[id]
	if !ok {
		sd.mu.Unlock()
		return Entity[T]{}, fmt.Errorf("%w: %s", ErrEntityNotFound, id)
	}
	shape, err := mutate(e.Shape)
	if err != nil {
		sd.mu.Unlock()
		return Entity[T]{}, err
	}
	e.Shape = shape
	sd.entities[id] = e
	sd.mu.Unlock()

	r.publish(t, id, "")
	return e, nil
}

// Len reports the number of registered entities.
func (r *Registry[T]) Len() int {
	total := 0
	for i := range r.shards {
		sd := &r.shards[i]
		sd.mu.RLock()
		total += len(sd.entities)
		sd.mu.RUnlock()
	}
	return total
}

// Snapshot returns every entity ordered by ID.
func (r *Registry[T]) Snapshot() []Entity[T] {
	out := make([]Entity[T], 0, r.Len())
	for i := range r.shards {
		sd := &r.shards[i]
		sd.mu.RLock()
		for _, e := range sd.entities {
			out = append(out, e)
		}
		sd.mu.RUnlock()
	}
	return sequence.From(out).
		Sort(func(a, b Entity[T]) bool { return a.ID < b.ID }).
		Collect()
}

// Range calls fn for each entity until fn returns false. fn must not call
// back into the registry.
func (r *Registry[T]) Range(fn func(Entity[T]) bool) {
	for i := range r.shards {
		sd := &r.shards[i]
		sd.mu.RLock()
		for _, e := range sd.entities {
			if !fn(e) {
				sd.mu.RUnlock()
				return
			}
		}
		sd.mu.RUnlock()
	}
}

// QueryIntersecting returns every entity whose shape intersects the probe,
// ordered by ID. Entities whose ID is in exclude are skipped.
func (r *Registry[T]) QueryIntersecting(probe shapes.Shape[T], exclude ...EntityID) ([]Entity[T], error) {
	if probe == nil {
		return nil, ErrNilShape
	}
	skip := toSet(exclude)

	var mu sync.Mutex
	var hits []Entity[T]
	err := concurrent.Concurrent(sequence.From(r.indexes), func(i int) error {
		sd := &r.shards[i]
		sd.mu.RLock()
		defer sd.mu.RUnlock()
		for _, e := range sd.entities {
			if _, ok := skip[e.ID]; ok {
				continue
			}
			if shapes.Intersects(probe, e.Shape) {
				mu.Lock()
				hits = append(hits, e)
				mu.Unlock()
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sortByID(hits), nil
}

// QueryPoint returns every entity whose shape contains the point, ordered by
// ID.
func (r *Registry[T]) QueryPoint(p spatial.Vector3[T]) ([]Entity[T], error) {
	var mu sync.Mutex
	var hits []Entity[T]
	err := concurrent.Concurrent(sequence.From(r.indexes), func(i int) error {
		sd := &r.shards[i]
		sd.mu.RLock()
		defer sd.mu.RUnlock()
		for _, e := range sd.entities {
			if e.Shape.IsPointWithin(p) {
				mu.Lock()
				hits = append(hits, e)
				mu.Unlock()
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sortByID(hits), nil
}

// QuerySweep slides mover along path and reports every entity it would touch,
// nearest first. Each hit carries the mover center at first contact and the
// distance travelled to reach it. Hits publish collision events.
func (r *Registry[T]) QuerySweep(mover shapes.Shape[T], path spatial.Vector3[T], exclude ...EntityID) ([]SweepHit[T], error) {
	if mover == nil {
		return nil, ErrNilShape
	}
	skip := toSet(exclude)
	start := mover.Position()

	var mu sync.Mutex
	var hits []SweepHit[T]
	err := concurrent.Concurrent(sequence.From(r.indexes), func(i int) error {
		sd := &r.shards[i]
		sd.mu.RLock()
		defer sd.mu.RUnlock()
		for _, e := range sd.entities {
			if _, ok := skip[e.ID]; ok {
				continue
			}
			at, ok := shapes.CollisionPoint(mover, path, e.Shape)
			if !ok {
				continue
			}
			mu.Lock()
			hits = append(hits, SweepHit[T]{Entity: e, At: at, Distance: at.Distance(start)})
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	hits = sequence.From(hits).
		Sort(func(a, b SweepHit[T]) bool {
			if c := a.Distance.Cmp(b.Distance); c != 0 {
				return c < 0
			}
			return a.Entity.ID < b.Entity.ID
		}).
		Collect()

	for _, h := range hits {
		r.publish(events.CollisionDetected, h.Entity.ID, firstExcluded(exclude))
	}
	return hits, nil
}

// firstExcluded treats the first excluded ID as the moving entity when the
// sweep was started on behalf of one.
func firstExcluded(exclude []EntityID) EntityID {
	if len(exclude) > 0 {
		return exclude[0]
	}
	return ""
}

func toSet(ids []EntityID) map[EntityID]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[EntityID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func sortByID[T scalar.Scalar[T]](entities []Entity[T]) []Entity[T] {
	return sequence.From(entities).
		Sort(func(a, b Entity[T]) bool { return a.ID < b.ID }).
		Collect()
}

func nextPowerOf2(n int) int {
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Package events is the in-process notification bus for world changes.
// Subscriptions are buffered channels; a publisher never blocks on a slow
// consumer, it drops the event for that consumer and counts the drop.
package events

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var ErrClosed = errors.New("events: bus closed")

// Type tags an event with what happened.
type Type uint8

const (
	EntityAdded Type = iota
	EntityRemoved
	EntityMoved
	CollisionDetected

	typeCount
)

var typeNames = [typeCount]string{
	EntityAdded:       "entity_added",
	EntityRemoved:     "entity_removed",
	EntityMoved:       "entity_moved",
	CollisionDetected: "collision_detected",
}

func (t Type) String() string {
	if t < typeCount {
		return typeNames[t]
	}
	return "unknown"
}

func (t Type) Valid() bool { return t < typeCount }

// Event is an immutable notification. OtherID is set only for collisions.
type Event struct {
	Type     Type      `json:"type"`
	EntityID string    `json:"entity_id"`
	OtherID  string    `json:"other_id,omitempty"`
	At       time.Time `json:"at"`
}

// Subscription is a registered consumer. Events arrive on the channel until
// Cancel or bus Close; the channel is closed in both cases.
type Subscription struct {
	id    string
	types map[Type]struct{}
	ch    chan Event

	cancel func(id string)
	once   sync.Once
}

func (s *Subscription) ID() string { return s.id }

// Events is the receive side of the subscription buffer.
func (s *Subscription) Events() <-chan Event { return s.ch }

func (s *Subscription) wants(t Type) bool {
	if len(s.types) == 0 {
		return true
	}
	_, ok := s.types[t]
	return ok
}

// Cancel removes the subscription and closes its channel. Safe to call more
// than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.cancel(s.id)
		close(s.ch)
	})
}

// Bus fans events out to subscribers. All methods are safe for concurrent
// use.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]*Subscription
	buffer int
	closed bool

	dropped atomic.Uint64
}

const defaultBuffer = 64

// NewBus creates a bus whose subscriptions buffer up to buffer events.
// Non-positive buffer sizes use the default.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Bus{
		subs:   make(map[string]*Subscription),
		buffer: buffer,
	}
}

// Subscribe registers a consumer for the given event types; no types means
// every type.
func (b *Bus) Subscribe(types ...Type) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}

	sub := &Subscription{
		id:     uuid.NewString(),
		ch:     make(chan Event, b.buffer),
		cancel: b.remove,
	}
	if len(types) > 0 {
		sub.types = make(map[Type]struct{}, len(types))
		for _, t := range types {
			sub.types[t] = struct{}{}
		}
	}
	b.subs[sub.id] = sub
	return sub, nil
}

func (b *Bus) remove(id string) {
	b.mu.Lock()
	delete(b.subs, id)
	b.mu.Unlock()
}

// Publish delivers the event to every matching subscriber without blocking.
// Full buffers drop the event for that subscriber.
func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, sub := range b.subs {
		if !sub.wants(e.Type) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			b.dropped.Add(1)
		}
	}
}

// Dropped reports how many deliveries were discarded due to full buffers.
func (b *Bus) Dropped() uint64 { return b.dropped.Load() }

// Len reports the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close cancels every subscription and rejects further subscribes. Publishes
// after Close are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := make([]*Subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		subs = append(subs, sub)
	}
	b.subs = make(map[string]*Subscription)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.once.Do(func() { close(sub.ch) })
	}
}

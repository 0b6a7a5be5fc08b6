package client

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/geomsync/geomsync/internal/core/events"
	"github.com/geomsync/geomsync/internal/core/observability/log"
	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/shapes"
	"github.com/geomsync/geomsync/internal/core/spatial"
	"github.com/geomsync/geomsync/internal/server"
)

func newFixture(t *testing.T) *Client {
	t.Helper()

	cfg := server.DefaultConfig()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.LogLevel = "fatal"
	srv, err := server.NewServer(cfg)
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() { _ = srv.Close() })

	clientCfg := DefaultClientConfig()
	clientCfg.ServerAddr = srv.Addr()
	clientCfg.LogLevel = log.LevelFatal

	c := NewClient(clientCfg)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sphere(t *testing.T, radius, x, y, z float64) shapes.Shape[f64] {
	t.Helper()
	s, err := shapes.NewSphere(scalar.FromFloat[f64](radius), spatial.Vector3From[f64](x, y, z))
	require.NoError(t, err)
	return s
}

func TestClientEntityLifecycle(t *testing.T) {
	c := newFixture(t)
	ctx := context.Background()

	added, err := c.AddEntity(ctx, "orb", []string{"demo"}, sphere(t, 2, 1, 0, 0))
	require.NoError(t, err)
	if added.ID == "" || added.Name != "orb" {
		t.Fatalf("added = %+v", added)
	}
	if added.Shape.Kind() != shapes.KindSphere {
		t.Errorf("kind = %v", added.Shape.Kind())
	}

	got, err := c.GetEntity(ctx, added.ID)
	require.NoError(t, err)
	if got.Name != "orb" || len(got.Tags) != 1 {
		t.Errorf("got = %+v", got)
	}

	list, err := c.ListEntities(ctx)
	require.NoError(t, err)
	if len(list) != 1 {
		t.Errorf("list len = %d", len(list))
	}

	moved, err := c.MoveEntity(ctx, added.ID, spatial.Vector3From[f64](5, 0, 0))
	require.NoError(t, err)
	if !moved.Shape.Position().NearlyEquals(spatial.Vector3From[f64](5, 0, 0)) {
		t.Errorf("moved position = %v", moved.Shape.Position())
	}

	removed, err := c.RemoveEntity(ctx, added.ID)
	require.NoError(t, err)
	if removed.ID != added.ID {
		t.Errorf("removed = %+v", removed)
	}

	_, err = c.GetEntity(ctx, added.ID)
	if !IsNotFound(err) {
		t.Fatalf("get after remove = %v, want not-found", err)
	}
}

func TestClientRotate(t *testing.T) {
	c := newFixture(t)
	ctx := context.Background()

	box, err := shapes.NewCuboid(
		spatial.Vector3From[f64](4, 2, 2),
		spatial.Vector3From[f64](0, 0, 0),
		spatial.QuaternionIdentity[f64](),
	)
	require.NoError(t, err)

	added, err := c.AddEntity(ctx, "box", nil, box)
	require.NoError(t, err)

	want := spatial.QuaternionFromAxisAngle(spatial.UnitY[f64](), scalar.FromFloat[f64](math.Pi/2))
	rotated, err := c.RotateEntity(ctx, added.ID, want)
	require.NoError(t, err)
	if !rotated.Shape.Rotation().SameRotation(want) {
		t.Errorf("rotation = %v", rotated.Shape.Rotation())
	}
}

func TestClientQueries(t *testing.T) {
	c := newFixture(t)
	ctx := context.Background()

	near, err := c.AddEntity(ctx, "near", nil, sphere(t, 1, 0, 0, 0))
	require.NoError(t, err)
	_, err = c.AddEntity(ctx, "close", nil, sphere(t, 1, 3, 0, 0))
	require.NoError(t, err)
	_, err = c.AddEntity(ctx, "far", nil, sphere(t, 1, 50, 0, 0))
	require.NoError(t, err)

	hits, err := c.Intersecting(ctx, sphere(t, 2.5, 0, 0, 0))
	require.NoError(t, err)
	if len(hits) != 2 {
		t.Fatalf("intersecting len = %d", len(hits))
	}

	hits, err = c.Intersecting(ctx, sphere(t, 2.5, 0, 0, 0), near.ID)
	require.NoError(t, err)
	if len(hits) != 1 || hits[0].Name != "close" {
		t.Fatalf("excluded hits = %+v", hits)
	}

	inside, err := c.AtPoint(ctx, spatial.Vector3From[f64](0.5, 0, 0))
	require.NoError(t, err)
	if len(inside) != 1 || inside[0].ID != near.ID {
		t.Fatalf("at point = %+v", inside)
	}
}

func TestClientSweep(t *testing.T) {
	c := newFixture(t)
	ctx := context.Background()

	first, err := c.AddEntity(ctx, "first", nil, sphere(t, 1, 5, 0, 0))
	require.NoError(t, err)
	_, err = c.AddEntity(ctx, "second", nil, sphere(t, 1, 8, 0, 0))
	require.NoError(t, err)

	hits, err := c.Sweep(ctx, sphere(t, 1, 0, 0, 0), spatial.Vector3From[f64](10, 0, 0))
	require.NoError(t, err)
	require.Len(t, hits, 2)

	if hits[0].Entity.ID != first.ID {
		t.Errorf("nearest hit = %+v", hits[0].Entity)
	}
	if math.Abs(hits[0].Distance-3) > 1e-9 {
		t.Errorf("distance = %v, want 3", hits[0].Distance)
	}
	if !hits[0].At.NearlyEquals(spatial.Vector3From[f64](3, 0, 0)) {
		t.Errorf("at = %v", hits[0].At)
	}
}

func TestClientEvents(t *testing.T) {
	c := newFixture(t)
	ctx := context.Background()

	received := make(chan events.Event, 8)
	c.OnEvent(events.EntityAdded, func(e events.Event) { received <- e })

	require.NoError(t, c.SubscribeEvents(ctx, events.EntityAdded))
	if !c.IsConnected() {
		t.Fatal("not connected after subscribe")
	}
	if err := c.SubscribeEvents(ctx); err != ErrAlreadyConnected {
		t.Fatalf("second subscribe = %v", err)
	}

	added, err := c.AddEntity(ctx, "watched", nil, sphere(t, 1, 0, 0, 0))
	require.NoError(t, err)

	select {
	case e := <-received:
		if e.Type != events.EntityAdded || e.EntityID != added.ID {
			t.Errorf("event = %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	require.NoError(t, c.UnsubscribeEvents())
	if err = c.UnsubscribeEvents(); err != ErrNotConnected {
		t.Errorf("second unsubscribe = %v", err)
	}
}

func TestClientPing(t *testing.T) {
	c := newFixture(t)

	latency, err := c.Ping(context.Background())
	require.NoError(t, err)
	if latency <= 0 {
		t.Errorf("latency = %v", latency)
	}
}

func TestClientClosed(t *testing.T) {
	c := newFixture(t)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	if _, err := c.AddEntity(context.Background(), "x", nil, sphere(t, 1, 0, 0, 0)); err != ErrClientClosed {
		t.Errorf("add after close = %v", err)
	}
	if err := c.SubscribeEvents(context.Background()); err != ErrClientClosed {
		t.Errorf("subscribe after close = %v", err)
	}
}

func TestClientAPIError(t *testing.T) {
	c := newFixture(t)

	_, err := c.GetEntity(context.Background(), "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	if apiErr.Code != server.ErrorCodeEntityNotFound {
		t.Errorf("code = %d", apiErr.Code)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound = false")
	}
}

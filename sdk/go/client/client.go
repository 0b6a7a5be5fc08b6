// Package client is the Go SDK for the geomsync query service. It speaks the
// query envelope over REST and receives world events over WebSocket; all
// geometry is exchanged in the float64 scalar profile.
package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/gorilla/websocket"

	"github.com/geomsync/geomsync/internal/core/events"
	"github.com/geomsync/geomsync/internal/core/observability/log"
	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/shapes"
	"github.com/geomsync/geomsync/internal/core/spatial"
	"github.com/geomsync/geomsync/internal/server"
)

type f64 = scalar.Float64

// Entity is a world entity as seen by the SDK.
type Entity struct {
	ID    string
	Name  string
	Tags  []string
	Shape shapes.Shape[f64]
}

// SweepHit is one swept-collision result, nearest first.
type SweepHit struct {
	Entity   Entity
	At       spatial.Vector3[f64]
	Distance float64
}

// EventHandler receives world events from the subscription stream.
type EventHandler func(events.Event)

// Config holds client configuration.
type Config struct {
	// ServerAddr is the service host:port.
	ServerAddr string

	// Request handling
	RequestTimeout time.Duration
	RetryCount     int

	// Event stream
	ConnectTimeout time.Duration
	MaxMessageSize int64

	LogLevel log.Level
}

// DefaultClientConfig returns the default client configuration.
func DefaultClientConfig() Config {
	return Config{
		ServerAddr:     "localhost:8080",
		RequestTimeout: 10 * time.Second,
		RetryCount:     2,
		ConnectTimeout: 10 * time.Second,
		MaxMessageSize: 1024 * 1024, // 1MB
		LogLevel:       log.LevelInfo,
	}
}

// Client talks to a geomsync query service.
type Client struct {
	config Config
	logger log.Log
	http   *resty.Client

	// Event stream state
	eventConn     *websocket.Conn
	eventHandlers map[events.Type][]EventHandler
	handlerMutex  sync.RWMutex

	connected int32 // atomic bool, event stream
	closed    int32 // atomic bool

	workerGroup sync.WaitGroup
}

// NewClient creates a client for the service at config.ServerAddr.
func NewClient(config Config) *Client {
	logger := log.New(config.LogLevel).With(log.String("component", "client"))

	httpClient := resty.New().
		SetBaseURL("http://" + config.ServerAddr).
		SetTimeout(config.RequestTimeout).
		SetRetryCount(config.RetryCount).
		SetHeader("Content-Type", "application/json")

	return &Client{
		config:        config,
		logger:        logger,
		http:          httpClient,
		eventHandlers: make(map[events.Type][]EventHandler),
	}
}

// query posts one envelope and unwraps the reply. Envelope failures come back
// as *APIError.
func (c *Client) query(ctx context.Context, req server.Request) (server.Response, error) {
	if atomic.LoadInt32(&c.closed) == 1 {
		return server.Response{}, ErrClientClosed
	}

	body, err := server.EncodeRequest(req)
	if err != nil {
		return server.Response{}, fmt.Errorf("encode request: %w", err)
	}

	httpResp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/api/v1/query")
	if err != nil {
		return server.Response{}, err
	}

	resp, err := server.DecodeResponse(httpResp.Body())
	if err != nil {
		return server.Response{}, fmt.Errorf("decode response: %w", err)
	}
	if resp.Error != nil {
		return resp, &APIError{Code: resp.Error.Code, Message: resp.Error.Message}
	}
	return resp, nil
}

// AddEntity registers a shape with the world and returns the stored entity.
func (c *Client) AddEntity(ctx context.Context, name string, tags []string, shape shapes.Shape[f64]) (Entity, error) {
	payload, err := shapes.Encode(shape)
	if err != nil {
		return Entity{}, fmt.Errorf("encode shape: %w", err)
	}

	resp, err := c.query(ctx, server.Request{
		Op:    server.OpAdd,
		Name:  name,
		Tags:  tags,
		Shape: payload,
	})
	if err != nil {
		return Entity{}, err
	}
	return entityFrom(resp.Entity)
}

// GetEntity fetches one entity by ID.
func (c *Client) GetEntity(ctx context.Context, id string) (Entity, error) {
	resp, err := c.query(ctx, server.Request{Op: server.OpGet, EntityID: id})
	if err != nil {
		return Entity{}, err
	}
	return entityFrom(resp.Entity)
}

// RemoveEntity deletes an entity and returns its final state.
func (c *Client) RemoveEntity(ctx context.Context, id string) (Entity, error) {
	resp, err := c.query(ctx, server.Request{Op: server.OpRemove, EntityID: id})
	if err != nil {
		return Entity{}, err
	}
	return entityFrom(resp.Entity)
}

// ListEntities returns every entity, ordered by ID.
func (c *Client) ListEntities(ctx context.Context) ([]Entity, error) {
	resp, err := c.query(ctx, server.Request{Op: server.OpList})
	if err != nil {
		return nil, err
	}
	return entitiesFrom(resp.Entities)
}

// MoveEntity relocates an entity and returns the updated state.
func (c *Client) MoveEntity(ctx context.Context, id string, position spatial.Vector3[f64]) (Entity, error) {
	pos := toVec(position)
	resp, err := c.query(ctx, server.Request{
		Op:       server.OpMove,
		EntityID: id,
		Position: &pos,
	})
	if err != nil {
		return Entity{}, err
	}
	return entityFrom(resp.Entity)
}

// RotateEntity reorients an entity and returns the updated state.
func (c *Client) RotateEntity(ctx context.Context, id string, rotation spatial.Quaternion[f64]) (Entity, error) {
	rot := server.Quat{
		X: rotation.X.Float64(),
		Y: rotation.Y.Float64(),
		Z: rotation.Z.Float64(),
		W: rotation.W.Float64(),
	}
	resp, err := c.query(ctx, server.Request{
		Op:       server.OpMove,
		EntityID: id,
		Rotation: &rot,
	})
	if err != nil {
		return Entity{}, err
	}
	return entityFrom(resp.Entity)
}

// Intersecting returns the entities whose shapes overlap probe, excluding the
// given entity IDs.
func (c *Client) Intersecting(ctx context.Context, probe shapes.Shape[f64], exclude ...string) ([]Entity, error) {
	payload, err := shapes.Encode(probe)
	if err != nil {
		return nil, fmt.Errorf("encode shape: %w", err)
	}

	resp, err := c.query(ctx, server.Request{
		Op:      server.OpIntersect,
		Shape:   payload,
		Exclude: exclude,
	})
	if err != nil {
		return nil, err
	}
	return entitiesFrom(resp.Entities)
}

// AtPoint returns the entities whose shapes contain the point.
func (c *Client) AtPoint(ctx context.Context, point spatial.Vector3[f64]) ([]Entity, error) {
	p := toVec(point)
	resp, err := c.query(ctx, server.Request{Op: server.OpPoint, Point: &p})
	if err != nil {
		return nil, err
	}
	return entitiesFrom(resp.Entities)
}

// Sweep moves probe along path and returns the entities it would strike,
// nearest first, with first-touch positions.
func (c *Client) Sweep(ctx context.Context, mover shapes.Shape[f64], path spatial.Vector3[f64], exclude ...string) ([]SweepHit, error) {
	payload, err := shapes.Encode(mover)
	if err != nil {
		return nil, fmt.Errorf("encode shape: %w", err)
	}

	p := toVec(path)
	resp, err := c.query(ctx, server.Request{
		Op:      server.OpSweep,
		Shape:   payload,
		Path:    &p,
		Exclude: exclude,
	})
	if err != nil {
		return nil, err
	}

	hits := make([]SweepHit, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		entity, err := entityFrom(&h.Entity)
		if err != nil {
			return nil, err
		}
		hits = append(hits, SweepHit{
			Entity:   entity,
			At:       spatial.Vector3From[f64](h.At.X, h.At.Y, h.At.Z),
			Distance: h.Distance,
		})
	}
	return hits, nil
}

// Ping checks the service health endpoint and returns the round-trip time.
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	if atomic.LoadInt32(&c.closed) == 1 {
		return 0, ErrClientClosed
	}

	start := time.Now()
	resp, err := c.http.R().SetContext(ctx).Get("/healthz")
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("health check failed: %s", resp.Status())
	}
	return time.Since(start), nil
}

// OnEvent registers a handler for one event type. Handlers run on the stream
// goroutine in arrival order; a slow handler delays the events behind it.
func (c *Client) OnEvent(t events.Type, handler EventHandler) {
	c.handlerMutex.Lock()
	defer c.handlerMutex.Unlock()
	c.eventHandlers[t] = append(c.eventHandlers[t], handler)
}

// SubscribeEvents connects the event stream. With no types every event is
// delivered; otherwise the server filters to the given types.
func (c *Client) SubscribeEvents(ctx context.Context, types ...events.Type) error {
	if atomic.LoadInt32(&c.closed) == 1 {
		return ErrClientClosed
	}
	if !atomic.CompareAndSwapInt32(&c.connected, 0, 1) {
		return ErrAlreadyConnected
	}

	wsURL := url.URL{Scheme: "ws", Host: c.config.ServerAddr, Path: "/api/v1/events"}
	if len(types) > 0 {
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = t.String()
		}
		wsURL.RawQuery = "types=" + strings.Join(names, ",")
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.config.ConnectTimeout}
	conn, resp, err := dialer.DialContext(ctx, wsURL.String(), nil)
	if resp != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		atomic.StoreInt32(&c.connected, 0)
		c.logger.Error("event stream dial failed", log.String("url", wsURL.String()), log.Error(err))
		return err
	}
	conn.SetReadLimit(c.config.MaxMessageSize)

	c.eventConn = conn
	c.logger.Info("event stream connected", log.String("addr", c.config.ServerAddr))

	c.workerGroup.Add(1)
	go func() {
		defer c.workerGroup.Done()
		c.eventReader(conn)
	}()
	return nil
}

// UnsubscribeEvents closes the event stream.
func (c *Client) UnsubscribeEvents() error {
	if !atomic.CompareAndSwapInt32(&c.connected, 1, 0) {
		return ErrNotConnected
	}
	if c.eventConn != nil {
		_ = c.eventConn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		_ = c.eventConn.Close()
	}
	return nil
}

// IsConnected reports whether the event stream is up.
func (c *Client) IsConnected() bool {
	return atomic.LoadInt32(&c.connected) == 1
}

// Close shuts the client down. Safe to call more than once.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}

	_ = c.UnsubscribeEvents()
	c.workerGroup.Wait()

	c.logger.Info("client closed")
	return nil
}

// eventReader pumps pushed events to the registered handlers until the
// stream closes.
func (c *Client) eventReader(conn *websocket.Conn) {
	defer func() {
		atomic.StoreInt32(&c.connected, 0)
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if atomic.LoadInt32(&c.connected) == 1 && atomic.LoadInt32(&c.closed) == 0 {
				c.logger.Warn("event stream closed", log.Error(err))
			}
			return
		}

		var e events.Event
		if err = sonic.Unmarshal(data, &e); err != nil {
			c.logger.Error("event decode failed", log.Error(err))
			continue
		}
		c.dispatchEvent(e)
	}
}

func (c *Client) dispatchEvent(e events.Event) {
	c.handlerMutex.RLock()
	handlers := c.eventHandlers[e.Type]
	c.handlerMutex.RUnlock()

	for _, handler := range handlers {
		handler(e)
	}
}

func entityFrom(p *server.EntityPayload) (Entity, error) {
	if p == nil {
		return Entity{}, fmt.Errorf("response missing entity payload")
	}
	shape, err := shapes.Decode[f64](p.Shape)
	if err != nil {
		return Entity{}, fmt.Errorf("decode entity shape: %w", err)
	}
	return Entity{ID: p.ID, Name: p.Name, Tags: p.Tags, Shape: shape}, nil
}

func entitiesFrom(payloads []server.EntityPayload) ([]Entity, error) {
	out := make([]Entity, 0, len(payloads))
	for i := range payloads {
		e, err := entityFrom(&payloads[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func toVec(v spatial.Vector3[f64]) server.Vec {
	return server.Vec{X: v.X.Float64(), Y: v.Y.Float64(), Z: v.Z.Float64()}
}

package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestNewServerInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxClients = 0
	if _, err := NewServer(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("NewServer = %v, want ErrInvalidConfig", err)
	}
}

func TestServerLifecycle(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	if s.IsRunning() {
		t.Fatal("server running before Start")
	}
	if err := s.Stop(ctx); !errors.Is(err, ErrServerNotRunning) {
		t.Fatalf("Stop before Start = %v", err)
	}

	require.NoError(t, s.Start(ctx))
	t.Cleanup(func() { _ = s.Close() })

	if !s.IsRunning() {
		t.Fatal("server not running after Start")
	}
	if s.Addr() == "" {
		t.Fatal("Addr empty after Start")
	}
	if s.QUICAddr() != "" {
		t.Errorf("QUICAddr = %q with QUIC disabled", s.QUICAddr())
	}

	if err := s.Start(ctx); !errors.Is(err, ErrServerAlreadyRunning) {
		t.Errorf("second Start = %v", err)
	}

	resp, err := http.Get("http://" + s.Addr() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}

	require.NoError(t, s.Stop(ctx))
	if s.IsRunning() {
		t.Error("server still running after Stop")
	}
	if err = s.Stop(ctx); !errors.Is(err, ErrServerNotRunning) {
		t.Errorf("second Stop = %v", err)
	}
	if err = s.Start(ctx); !errors.Is(err, ErrServerClosed) {
		t.Errorf("Start after Stop = %v", err)
	}
}

func TestServerCloseIdempotent(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	if err := s.Start(context.Background()); !errors.Is(err, ErrServerClosed) {
		t.Errorf("Start after Close = %v", err)
	}
}

func TestServerSceneLoad(t *testing.T) {
	scene := `
name: test-scene
entities:
  - name: floor
    shape:
      kind: cuboid
      dimensions: {x: 10, y: 1, z: 10}
      position: {x: 0, y: -0.5, z: 0}
  - name: orb
    shape:
      kind: sphere
      radius: 2
      position: {x: 0, y: 3, z: 0}
`
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scene), 0o644))

	cfg := DefaultConfig()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.LogLevel = "fatal"
	cfg.ScenePath = path

	s, err := NewServer(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Close() })

	if got := s.World().Len(); got != 2 {
		t.Errorf("world len = %d, want 2", got)
	}
}

func TestServerSceneLoadFailure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.LogLevel = "fatal"
	cfg.ScenePath = filepath.Join(t.TempDir(), "missing.yaml")

	s, err := NewServer(cfg)
	require.NoError(t, err)

	if err = s.Start(context.Background()); err == nil {
		t.Fatal("Start succeeded with missing scene")
	}
	if s.IsRunning() {
		t.Error("server running after failed Start")
	}
}

func TestServerClientLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.LogLevel = "fatal"
	cfg.MaxClients = 1

	s, err := NewServer(cfg)
	require.NoError(t, err)

	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)

	first := dialWS(t, ts.URL, "/api/v1/ws")
	defer func() { _ = first.Close() }()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	second, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		_ = second.Close()
		t.Fatal("second dial succeeded past the client limit")
	}
	require.NotNil(t, resp)
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

// Package server exposes the world registry as a spatial query service over
// HTTP, WebSocket and QUIC. All three transports speak the same JSON
// envelopes; the server runs the float64 scalar profile.
package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quic-go/quic-go"

	"github.com/geomsync/geomsync/internal/core/events"
	"github.com/geomsync/geomsync/internal/core/observability/log"
	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/world"
)

// Server is the spatial query service.
type Server struct {
	config  Config
	logger  log.Log
	bus     *events.Bus
	world   *world.Registry[scalar.Float64]
	handler *handler
	metrics *Metrics

	httpServer   *http.Server
	httpListener net.Listener
	quicListener *quic.Listener

	clientCount int64 // atomic

	running int32 // atomic bool
	closed  int32 // atomic bool

	workerGroup sync.WaitGroup
	stopChan    chan struct{}
}

// NewServer builds a server around a fresh world. The configuration must
// already be validated or come from LoadConfig.
func NewServer(config Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := log.New(log.ParseLevel(config.LogLevel)).With(log.String("component", "server"))
	bus := events.NewBus(config.EventBuffer)
	registry := world.New[scalar.Float64](world.Config{Shards: config.Shards}, bus, logger)

	var metrics *Metrics
	if config.MetricsEnabled {
		metrics = NewMetrics(
			func() float64 { return float64(registry.Len()) },
			func() float64 { return float64(bus.Dropped()) },
		)
	}

	s := &Server{
		config:   config,
		logger:   logger,
		bus:      bus,
		world:    registry,
		handler:  newHandler(registry, metrics, logger),
		metrics:  metrics,
		stopChan: make(chan struct{}),
	}

	s.logger.Info("server created",
		log.String("http_addr", config.HTTPAddr),
		log.Int("max_clients", config.MaxClients),
	)
	return s, nil
}

// World returns the registry the server answers queries from.
func (s *Server) World() *world.Registry[scalar.Float64] { return s.world }

// Bus returns the server's event bus.
func (s *Server) Bus() *events.Bus { return s.bus }

// Addr reports the bound HTTP address. Empty until Start.
func (s *Server) Addr() string {
	if s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// QUICAddr reports the bound QUIC address. Empty unless the QUIC endpoint is
// enabled and started.
func (s *Server) QUICAddr() string {
	if s.quicListener == nil {
		return ""
	}
	return s.quicListener.Addr().String()
}

// Start binds the listeners, loads the configured scene and begins serving.
func (s *Server) Start(ctx context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}

	s.logger.Info("starting server")

	if s.config.ScenePath != "" {
		if err := s.loadScene(); err != nil {
			atomic.StoreInt32(&s.running, 0)
			return err
		}
	}

	listener, err := net.Listen("tcp", s.config.HTTPAddr)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		s.logger.Error("failed to create listener", log.Error(err))
		return err
	}
	s.httpListener = listener

	// WebSocket upgrades hijack their connections, so these deadlines only
	// govern plain HTTP exchanges.
	s.httpServer = &http.Server{
		Handler:      s.routes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	go func() {
		if serveErr := s.httpServer.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("http server stopped", log.Error(serveErr))
		}
	}()

	if s.config.QUICAddr != "" {
		if err = s.startQUIC(ctx); err != nil {
			atomic.StoreInt32(&s.running, 0)
			_ = listener.Close()
			return err
		}
	}

	s.startWorkers()

	s.logger.Info("server listening",
		log.String("http_addr", listener.Addr().String()),
		log.String("quic_addr", s.config.QUICAddr),
	)
	return nil
}

// Stop shuts the listeners down and waits for the workers. Like
// http.Server, a stopped server cannot be started again.
func (s *Server) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}
	atomic.StoreInt32(&s.closed, 1)

	s.logger.Info("stopping server")
	close(s.stopChan)

	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("http shutdown", log.Error(err))
		}
		cancel()
	}

	if s.quicListener != nil {
		_ = s.quicListener.Close()
	}

	// Closing the bus closes subscriber channels, which unwinds the event
	// push loops.
	s.bus.Close()

	s.workerGroup.Wait()

	s.logger.Info("server stopped")
	return nil
}

// Close stops the server if it is running and releases its resources.
func (s *Server) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	if atomic.LoadInt32(&s.running) == 1 {
		_ = s.Stop(context.Background())
	}
	s.logger.Info("server closed")
	return nil
}

// IsRunning reports whether Start has succeeded and Stop has not been called.
func (s *Server) IsRunning() bool {
	return atomic.LoadInt32(&s.running) == 1
}

func (s *Server) loadScene() error {
	scene, err := world.LoadSceneFile(s.config.ScenePath)
	if err != nil {
		s.logger.Error("scene load failed", log.String("path", s.config.ScenePath), log.Error(err))
		return err
	}
	added, err := s.world.Populate(scene)
	if err != nil {
		s.logger.Error("scene populate failed", log.String("path", s.config.ScenePath), log.Error(err))
		return err
	}
	s.logger.Info("scene populated",
		log.String("path", s.config.ScenePath),
		log.Int("entities", len(added)),
	)
	return nil
}

// acquireClient reserves a connection slot. Callers must releaseClient when
// the connection ends.
func (s *Server) acquireClient() bool {
	if int(atomic.AddInt64(&s.clientCount, 1)) > s.config.MaxClients {
		atomic.AddInt64(&s.clientCount, -1)
		return false
	}
	s.metrics.connOpened()
	return true
}

func (s *Server) releaseClient() {
	atomic.AddInt64(&s.clientCount, -1)
	s.metrics.connClosed()
}

func (s *Server) startWorkers() {
	s.workerGroup.Add(1)
	go func() {
		defer s.workerGroup.Done()
		s.statsWorker()
	}()
}

// statsWorker periodically logs service health.
func (s *Server) statsWorker() {
	interval := s.config.StatsInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.logger.Info("server stats",
				log.Int("entities", s.world.Len()),
				log.Int64("clients", atomic.LoadInt64(&s.clientCount)),
				log.Uint64("events_dropped", s.bus.Dropped()),
			)
		case <-s.stopChan:
			return
		}
	}
}

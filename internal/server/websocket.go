package server

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/geomsync/geomsync/internal/core/events"
	"github.com/geomsync/geomsync/internal/core/observability/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// pingPeriod must be shorter than pongWait so the peer has a full window to
// answer.
func (s *Server) pongWait() time.Duration {
	if s.config.ReadTimeout > 0 {
		return s.config.ReadTimeout
	}
	return 60 * time.Second
}

func (s *Server) pingPeriod() time.Duration {
	return s.pongWait() * 9 / 10
}

func (s *Server) writeWait() time.Duration {
	if s.config.WriteTimeout > 0 {
		return s.config.WriteTimeout
	}
	return 10 * time.Second
}

// handleWS serves query envelopes over a socket: one JSON request per text
// frame, one response frame back.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.acquireClient() {
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.releaseClient()
		s.logger.Debug("ws upgrade failed", log.Error(err))
		return
	}

	s.logger.Debug("ws client connected", log.String("remote_addr", conn.RemoteAddr().String()))
	s.serveQuerySocket(conn)
}

func (s *Server) serveQuerySocket(conn *websocket.Conn) {
	defer func() {
		_ = conn.Close()
		s.releaseClient()
		s.logger.Debug("ws client disconnected", log.String("remote_addr", conn.RemoteAddr().String()))
	}()

	conn.SetReadLimit(s.config.MaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(s.pongWait()))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.pongWait()))
	})

	var writeMu sync.Mutex
	stopPing := make(chan struct{})
	defer close(stopPing)

	go func() {
		ticker := time.NewTicker(s.pingPeriod())
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				writeMu.Lock()
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.writeWait()))
				writeMu.Unlock()
				if err != nil {
					return
				}
			case <-stopPing:
				return
			case <-s.stopChan:
				return
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(s.pongWait()))

		var resp Response
		req, err := DecodeRequest(data)
		if err != nil {
			resp = errorResponse(Request{}, err)
		} else {
			resp = s.handler.handle(req)
		}

		out, err := EncodeResponse(resp)
		if err != nil {
			s.logger.Error("ws response encode failed", log.Error(err))
			return
		}

		writeMu.Lock()
		_ = conn.SetWriteDeadline(time.Now().Add(s.writeWait()))
		err = conn.WriteMessage(websocket.TextMessage, out)
		writeMu.Unlock()
		if err != nil {
			return
		}
	}
}

// handleEvents pushes world events to the socket. The types query parameter
// narrows the subscription to a comma-separated list of event names.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	types, err := parseEventTypes(r.URL.Query().Get("types"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !s.acquireClient() {
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	// Subscribe before completing the handshake so events published the
	// moment the client's dial returns are already buffered.
	sub, err := s.bus.Subscribe(types...)
	if err != nil {
		s.releaseClient()
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		sub.Cancel()
		s.releaseClient()
		s.logger.Debug("events upgrade failed", log.Error(err))
		return
	}

	s.logger.Debug("event subscriber connected",
		log.String("remote_addr", conn.RemoteAddr().String()),
		log.String("subscription_id", sub.ID()),
	)
	s.serveEventSocket(conn, sub)
}

func (s *Server) serveEventSocket(conn *websocket.Conn, sub *events.Subscription) {
	defer func() {
		sub.Cancel()
		_ = conn.Close()
		s.releaseClient()
		s.logger.Debug("event subscriber disconnected", log.String("subscription_id", sub.ID()))
	}()

	conn.SetReadLimit(s.config.MaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(s.pongWait()))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.pongWait()))
	})

	// Drain control frames so pongs and the peer's close are seen.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.pingPeriod())
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-sub.Events():
			if !ok {
				return
			}
			data, err := sonic.Marshal(e)
			if err != nil {
				s.logger.Error("event encode failed", log.Error(err))
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(s.writeWait()))
			if err = conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.writeWait())); err != nil {
				return
			}
		case <-readerDone:
			return
		case <-s.stopChan:
			return
		}
	}
}

func parseEventTypes(raw string) ([]events.Type, error) {
	if raw == "" {
		return nil, nil
	}
	var types []events.Type
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		t, ok := eventTypeByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown event type %q", name)
		}
		types = append(types, t)
	}
	return types, nil
}

func eventTypeByName(name string) (events.Type, bool) {
	for t := events.Type(0); t.Valid(); t++ {
		if t.String() == name {
			return t, true
		}
	}
	return 0, false
}

package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/geomsync/geomsync/internal/core/observability/log"
)

// routes builds the HTTP surface: the envelope endpoint, REST conveniences
// over the same handler, the WebSocket endpoints and the operational probes.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/query", s.handleQuery)

	mux.HandleFunc("GET /api/v1/entities", s.handleListEntities)
	mux.HandleFunc("POST /api/v1/entities", s.handleAddEntity)
	mux.HandleFunc("GET /api/v1/entities/{id}", s.handleGetEntity)
	mux.HandleFunc("DELETE /api/v1/entities/{id}", s.handleDeleteEntity)
	mux.HandleFunc("POST /api/v1/entities/{id}/position", s.handleMoveEntity)

	mux.HandleFunc("GET /api/v1/ws", s.handleWS)
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	return mux
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readRequest(w, r)
	if !ok {
		return
	}
	s.respond(w, s.handler.handle(req))
}

func (s *Server) handleListEntities(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, s.handler.handle(Request{Op: OpList}))
}

func (s *Server) handleAddEntity(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readRequest(w, r)
	if !ok {
		return
	}
	req.Op = OpAdd
	s.respond(w, s.handler.handle(req))
}

func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	s.respond(w, s.handler.handle(Request{
		Op:       OpGet,
		EntityID: r.PathValue("id"),
	}))
}

func (s *Server) handleDeleteEntity(w http.ResponseWriter, r *http.Request) {
	s.respond(w, s.handler.handle(Request{
		Op:       OpRemove,
		EntityID: r.PathValue("id"),
	}))
}

func (s *Server) handleMoveEntity(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readRequest(w, r)
	if !ok {
		return
	}
	req.Op = OpMove
	req.EntityID = r.PathValue("id")
	s.respond(w, s.handler.handle(req))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"entities": s.world.Len(),
	})
}

// readRequest decodes the envelope body. On failure it writes the error
// envelope itself and reports false.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) (Request, bool) {
	body := http.MaxBytesReader(w, r.Body, s.config.MaxMessageSize)
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = ErrBodyTooLarge
		}
		s.respond(w, errorResponse(Request{}, err))
		return Request{}, false
	}

	req, err := DecodeRequest(data)
	if err != nil {
		s.respond(w, errorResponse(Request{}, err))
		return Request{}, false
	}
	return req, true
}

// respond mirrors the envelope outcome in the HTTP status code.
func (s *Server) respond(w http.ResponseWriter, resp Response) {
	status := http.StatusOK
	if resp.Error != nil {
		status = httpStatus(resp.Error.Code)
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		s.logger.Error("response encode failed", log.Error(err))
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(data); err != nil {
		s.logger.Debug("response write failed", log.Error(err))
	}
}

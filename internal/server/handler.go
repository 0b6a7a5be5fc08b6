package server

import (
	"time"

	"github.com/geomsync/geomsync/internal/core/observability/log"
	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/shapes"
	"github.com/geomsync/geomsync/internal/core/spatial"
	"github.com/geomsync/geomsync/internal/core/world"
)

// handler executes query envelopes against the world. The service runs the
// float64 scalar profile; exact-precision callers embed the library directly.
type handler struct {
	world   *world.Registry[scalar.Float64]
	metrics *Metrics
	logger  log.Log
}

func newHandler(reg *world.Registry[scalar.Float64], metrics *Metrics, logger log.Log) *handler {
	return &handler{world: reg, metrics: metrics, logger: logger}
}

// handle dispatches one request and shapes the reply envelope. Failures are
// reported in-band; the error envelope carries the mapped code.
func (h *handler) handle(req Request) Response {
	start := time.Now()

	resp, err := h.dispatch(req)
	if err != nil {
		h.logger.Debug("query failed",
			log.String("op", req.Op.String()),
			log.Error(err),
		)
		resp = errorResponse(req, err)
	} else {
		resp.ID = req.ID
		resp.Op = req.Op
		resp.OK = true
	}

	h.metrics.observe(req.Op, err == nil, time.Since(start))
	return resp
}

func (h *handler) dispatch(req Request) (Response, error) {
	switch req.Op {
	case OpIntersect:
		return h.opIntersect(req)
	case OpSweep:
		return h.opSweep(req)
	case OpAdd:
		return h.opAdd(req)
	case OpRemove:
		return h.opRemove(req)
	case OpMove:
		return h.opMove(req)
	case OpGet:
		return h.opGet(req)
	case OpList:
		return h.opList(req)
	case OpPoint:
		return h.opPoint(req)
	default:
		return Response{}, ErrUnknownOp
	}
}

func (h *handler) opAdd(req Request) (Response, error) {
	shape, err := decodeShape(req)
	if err != nil {
		return Response{}, err
	}
	e, err := h.world.Add(req.Name, req.Tags, shape)
	if err != nil {
		return Response{}, err
	}
	payload, err := entityPayload(e)
	if err != nil {
		return Response{}, err
	}
	return Response{Entity: &payload}, nil
}

func (h *handler) opGet(req Request) (Response, error) {
	if req.EntityID == "" {
		return Response{}, ErrMissingEntity
	}
	e, err := h.world.Get(world.EntityID(req.EntityID))
	if err != nil {
		return Response{}, err
	}
	payload, err := entityPayload(e)
	if err != nil {
		return Response{}, err
	}
	return Response{Entity: &payload}, nil
}

func (h *handler) opRemove(req Request) (Response, error) {
	if req.EntityID == "" {
		return Response{}, ErrMissingEntity
	}
	e, err := h.world.Remove(world.EntityID(req.EntityID))
	if err != nil {
		return Response{}, err
	}
	payload, err := entityPayload(e)
	if err != nil {
		return Response{}, err
	}
	return Response{Entity: &payload}, nil
}

func (h *handler) opMove(req Request) (Response, error) {
	if req.EntityID == "" {
		return Response{}, ErrMissingEntity
	}
	if req.Position == nil && req.Rotation == nil {
		return Response{}, ErrMissingTarget
	}

	id := world.EntityID(req.EntityID)
	var (
		e   world.Entity[scalar.Float64]
		err error
	)
	if req.Position != nil {
		if e, err = h.world.MoveTo(id, toVector(*req.Position)); err != nil {
			return Response{}, err
		}
	}
	if req.Rotation != nil {
		if e, err = h.world.RotateTo(id, toQuaternion(*req.Rotation)); err != nil {
			return Response{}, err
		}
	}

	payload, err := entityPayload(e)
	if err != nil {
		return Response{}, err
	}
	return Response{Entity: &payload}, nil
}

func (h *handler) opList(Request) (Response, error) {
	entities := h.world.Snapshot()
	payloads, err := entityPayloads(entities)
	if err != nil {
		return Response{}, err
	}
	return Response{Entities: payloads, Count: len(payloads)}, nil
}

func (h *handler) opIntersect(req Request) (Response, error) {
	probe, err := decodeShape(req)
	if err != nil {
		return Response{}, err
	}
	hits, err := h.world.QueryIntersecting(probe, toEntityIDs(req.Exclude)...)
	if err != nil {
		return Response{}, err
	}
	payloads, err := entityPayloads(hits)
	if err != nil {
		return Response{}, err
	}
	return Response{Entities: payloads, Count: len(payloads)}, nil
}

func (h *handler) opPoint(req Request) (Response, error) {
	if req.Point == nil {
		return Response{}, ErrMissingPoint
	}
	hits, err := h.world.QueryPoint(toVector(*req.Point))
	if err != nil {
		return Response{}, err
	}
	payloads, err := entityPayloads(hits)
	if err != nil {
		return Response{}, err
	}
	return Response{Entities: payloads, Count: len(payloads)}, nil
}

func (h *handler) opSweep(req Request) (Response, error) {
	mover, err := decodeShape(req)
	if err != nil {
		return Response{}, err
	}
	if req.Path == nil {
		return Response{}, ErrMissingPath
	}
	hits, err := h.world.QuerySweep(mover, toVector(*req.Path), toEntityIDs(req.Exclude)...)
	if err != nil {
		return Response{}, err
	}

	payloads := make([]SweepPayload, 0, len(hits))
	for _, hit := range hits {
		entity, perr := entityPayload(hit.Entity)
		if perr != nil {
			return Response{}, perr
		}
		payloads = append(payloads, SweepPayload{
			Entity:   entity,
			At:       fromVector(hit.At),
			Distance: hit.Distance.Float64(),
		})
	}
	return Response{Hits: payloads, Count: len(payloads)}, nil
}

func decodeShape(req Request) (shapes.Shape[scalar.Float64], error) {
	if len(req.Shape) == 0 {
		return nil, ErrMissingShape
	}
	return shapes.Decode[scalar.Float64](req.Shape)
}

func entityPayload(e world.Entity[scalar.Float64]) (EntityPayload, error) {
	data, err := shapes.Encode(e.Shape)
	if err != nil {
		return EntityPayload{}, err
	}
	return EntityPayload{
		ID:    string(e.ID),
		Name:  e.Name,
		Tags:  e.Tags,
		Shape: data,
	}, nil
}

func entityPayloads(entities []world.Entity[scalar.Float64]) ([]EntityPayload, error) {
	payloads := make([]EntityPayload, 0, len(entities))
	for _, e := range entities {
		p, err := entityPayload(e)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, p)
	}
	return payloads, nil
}

func toEntityIDs(ids []string) []world.EntityID {
	out := make([]world.EntityID, len(ids))
	for i, id := range ids {
		out[i] = world.EntityID(id)
	}
	return out
}

func toVector(v Vec) spatial.Vector3[scalar.Float64] {
	return spatial.Vector3From[scalar.Float64](v.X, v.Y, v.Z)
}

func fromVector(v spatial.Vector3[scalar.Float64]) Vec {
	return Vec{X: v.X.Float64(), Y: v.Y.Float64(), Z: v.Z.Float64()}
}

func toQuaternion(q Quat) spatial.Quaternion[scalar.Float64] {
	return spatial.NewQuaternion(
		scalar.FromFloat[scalar.Float64](q.X),
		scalar.FromFloat[scalar.Float64](q.Y),
		scalar.FromFloat[scalar.Float64](q.Z),
		scalar.FromFloat[scalar.Float64](q.W),
	)
}

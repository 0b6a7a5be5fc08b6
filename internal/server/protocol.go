package server

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
)

// Op selects the query operation. The numeric values are part of the wire
// format and must not be reordered.
type Op uint8

const (
	OpIntersect Op = iota
	OpSweep
	OpAdd
	OpRemove
	OpMove
	OpGet
	OpList
	OpPoint

	opCount
)

var opNames = [opCount]string{
	OpIntersect: "intersect",
	OpSweep:     "sweep",
	OpAdd:       "add",
	OpRemove:    "remove",
	OpMove:      "move",
	OpGet:       "get",
	OpList:      "list",
	OpPoint:     "point",
}

func (o Op) String() string {
	if o < opCount {
		return opNames[o]
	}
	return "unknown"
}

func (o Op) Valid() bool { return o < opCount }

// Vec is the float64 wire form of a vector.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quat is the float64 wire form of a rotation.
type Quat struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Request is the query envelope. Shape payloads ride as raw JSON in the
// shapes codec wire form; which other fields apply depends on Op.
type Request struct {
	ID       string          `json:"id,omitempty"`
	Op       Op              `json:"op"`
	EntityID string          `json:"entity_id,omitempty"`
	Name     string          `json:"name,omitempty"`
	Tags     []string        `json:"tags,omitempty"`
	Shape    json.RawMessage `json:"shape,omitempty"`
	Position *Vec            `json:"position,omitempty"`
	Rotation *Quat           `json:"rotation,omitempty"`
	Path     *Vec            `json:"path,omitempty"`
	Point    *Vec            `json:"point,omitempty"`
	Exclude  []string        `json:"exclude,omitempty"`
}

// EntityPayload is the wire form of a registered entity.
type EntityPayload struct {
	ID    string          `json:"id"`
	Name  string          `json:"name,omitempty"`
	Tags  []string        `json:"tags,omitempty"`
	Shape json.RawMessage `json:"shape"`
}

// SweepPayload is one sweep hit on the wire.
type SweepPayload struct {
	Entity   EntityPayload `json:"entity"`
	At       Vec           `json:"at"`
	Distance float64       `json:"distance"`
}

// ErrorBody carries a failed operation's code and message.
type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Response is the reply envelope. ID and Op echo the request.
type Response struct {
	ID       string          `json:"id,omitempty"`
	Op       Op              `json:"op"`
	OK       bool            `json:"ok"`
	Error    *ErrorBody      `json:"error,omitempty"`
	Entity   *EntityPayload  `json:"entity,omitempty"`
	Entities []EntityPayload `json:"entities,omitempty"`
	Hits     []SweepPayload  `json:"hits,omitempty"`
	Count    int             `json:"count,omitempty"`
}

func DecodeRequest(data []byte) (Request, error) {
	var req Request
	if err := sonic.Unmarshal(data, &req); err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	if !req.Op.Valid() {
		return Request{}, fmt.Errorf("%w: op %d", ErrUnknownOp, req.Op)
	}
	return req, nil
}

func EncodeRequest(req Request) ([]byte, error) {
	return sonic.Marshal(req)
}

func DecodeResponse(data []byte) (Response, error) {
	var resp Response
	if err := sonic.Unmarshal(data, &resp); err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	return resp, nil
}

func EncodeResponse(resp Response) ([]byte, error) {
	return sonic.Marshal(resp)
}

// errorResponse builds the failure envelope for a request.
func errorResponse(req Request, err error) Response {
	return Response{
		ID: req.ID,
		Op: req.Op,
		Error: &ErrorBody{
			Code:    codeFor(err),
			Message: err.Error(),
		},
	}
}

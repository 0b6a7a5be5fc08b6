package server

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpString(t *testing.T) {
	cases := []struct {
		op   Op
		want string
	}{
		{OpIntersect, "intersect"},
		{OpSweep, "sweep"},
		{OpAdd, "add"},
		{OpRemove, "remove"},
		{OpMove, "move"},
		{OpGet, "get"},
		{OpList, "list"},
		{OpPoint, "point"},
		{Op(42), "unknown"},
	}
	for _, tc := range cases {
		if got := tc.op.String(); got != tc.want {
			t.Errorf("Op(%d).String() = %q, want %q", tc.op, got, tc.want)
		}
	}
	if Op(42).Valid() {
		t.Error("Op(42).Valid() = true")
	}
	if !OpPoint.Valid() {
		t.Error("OpPoint.Valid() = false")
	}
}

func TestRequestRoundTrip(t *testing.T) {
	req := Request{
		ID:       "req-1",
		Op:       OpSweep,
		Name:     "mover",
		Tags:     []string{"npc"},
		Shape:    []byte(`{"kind":2,"radius":1,"position":{"x":0,"y":0,"z":0}}`),
		Path:     &Vec{X: 10},
		Exclude:  []string{"a", "b"},
		Position: &Vec{X: 1, Y: 2, Z: 3},
	}

	data, err := EncodeRequest(req)
	require.NoError(t, err)

	got, err := DecodeRequest(data)
	require.NoError(t, err)

	if got.ID != req.ID || got.Op != req.Op || got.Name != req.Name {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if string(got.Shape) != string(req.Shape) {
		t.Errorf("shape payload changed: %s", got.Shape)
	}
	if got.Path == nil || got.Path.X != 10 {
		t.Errorf("path = %+v, want x=10", got.Path)
	}
	if len(got.Exclude) != 2 || got.Exclude[0] != "a" {
		t.Errorf("exclude = %v", got.Exclude)
	}
}

func TestDecodeRequestErrors(t *testing.T) {
	if _, err := DecodeRequest([]byte(`{"op":`)); !errors.Is(err, ErrMalformedBody) {
		t.Errorf("truncated body: err = %v, want ErrMalformedBody", err)
	}
	if _, err := DecodeRequest([]byte(`{"op":99}`)); !errors.Is(err, ErrUnknownOp) {
		t.Errorf("bad op: err = %v, want ErrUnknownOp", err)
	}
}

func TestResponseRoundTrip(t *testing.T) {
	resp := Response{
		ID: "req-2",
		Op: OpList,
		OK: true,
		Entities: []EntityPayload{
			{ID: "e1", Name: "one", Shape: []byte(`{"kind":0,"position":{"x":0,"y":0,"z":0}}`)},
		},
		Count: 1,
	}

	data, err := EncodeResponse(resp)
	require.NoError(t, err)

	got, err := DecodeResponse(data)
	require.NoError(t, err)
	if !got.OK || got.Count != 1 || len(got.Entities) != 1 || got.Entities[0].ID != "e1" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestErrorResponse(t *testing.T) {
	resp := errorResponse(Request{ID: "x", Op: OpGet}, ErrMissingEntity)
	if resp.OK {
		t.Error("error response reports ok")
	}
	require.NotNil(t, resp.Error)
	if resp.Error.Code != ErrorCodeBadRequest {
		t.Errorf("code = %d, want %d", resp.Error.Code, ErrorCodeBadRequest)
	}
	if resp.ID != "x" || resp.Op != OpGet {
		t.Errorf("envelope does not echo request: %+v", resp)
	}
}

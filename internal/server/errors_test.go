package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/geomsync/geomsync/internal/core/shapes"
	"github.com/geomsync/geomsync/internal/core/world"
)

func TestCodeFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"nil", nil, ErrorCodeSuccess},
		{"negative dimension", shapes.ErrNegativeDimension, ErrorCodeInvalidShape},
		{"inverted shell", shapes.ErrInvertedShell, ErrorCodeInvalidShape},
		{"not finite", shapes.ErrNotFinite, ErrorCodeInvalidShape},
		{"malformed shape", shapes.ErrMalformedShape, ErrorCodeMalformedShape},
		{"unknown kind", shapes.ErrUnknownKind, ErrorCodeMalformedShape},
		{"entity not found", world.ErrEntityNotFound, ErrorCodeEntityNotFound},
		{"unknown op", ErrUnknownOp, ErrorCodeUnknownOp},
		{"body too large", ErrBodyTooLarge, ErrorCodeBodyTooLarge},
		{"missing shape", ErrMissingShape, ErrorCodeBadRequest},
		{"missing entity", ErrMissingEntity, ErrorCodeBadRequest},
		{"missing path", ErrMissingPath, ErrorCodeBadRequest},
		{"missing point", ErrMissingPoint, ErrorCodeBadRequest},
		{"missing target", ErrMissingTarget, ErrorCodeBadRequest},
		{"malformed body", ErrMalformedBody, ErrorCodeBadRequest},
		{"nil shape", world.ErrNilShape, ErrorCodeBadRequest},
		{"server closed", ErrServerClosed, ErrorCodeServerClosed},
		{"anything else", errors.New("boom"), ErrorCodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := codeFor(tc.err); got != tc.code {
				t.Errorf("codeFor(%v) = %d, want %d", tc.err, got, tc.code)
			}
		})
	}
}

// Decoding a shape with a negative dimension wraps both the malformed
// sentinel and the dimension error. The dimension error wins so the caller
// learns the body parsed fine but described an impossible shape.
func TestCodeForWrappedDecode(t *testing.T) {
	err := fmt.Errorf("%w: %w", shapes.ErrMalformedShape, shapes.ErrNegativeDimension)
	if got := codeFor(err); got != ErrorCodeInvalidShape {
		t.Errorf("codeFor wrapped decode error = %d, want %d", got, ErrorCodeInvalidShape)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code   ErrorCode
		status int
	}{
		{ErrorCodeSuccess, http.StatusOK},
		{ErrorCodeBadRequest, http.StatusBadRequest},
		{ErrorCodeUnknownOp, http.StatusBadRequest},
		{ErrorCodeMalformedShape, http.StatusBadRequest},
		{ErrorCodeInvalidShape, http.StatusBadRequest},
		{ErrorCodeBodyTooLarge, http.StatusRequestEntityTooLarge},
		{ErrorCodeEntityNotFound, http.StatusNotFound},
		{ErrorCodeServerClosed, http.StatusServiceUnavailable},
		{ErrorCodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := httpStatus(tc.code); got != tc.status {
			t.Errorf("httpStatus(%d) = %d, want %d", tc.code, got, tc.status)
		}
	}
}

package server

import (
	"errors"
	"net/http"

	"github.com/geomsync/geomsync/internal/core/shapes"
	"github.com/geomsync/geomsync/internal/core/world"
)

var (
	ErrServerClosed         = errors.New("server is closed")
	ErrServerNotRunning     = errors.New("server is not running")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrMaxClientsReached    = errors.New("maximum clients reached")

	ErrUnknownOp      = errors.New("unknown operation")
	ErrMissingShape   = errors.New("request is missing a shape")
	ErrMissingEntity  = errors.New("request is missing an entity id")
	ErrMissingPath    = errors.New("request is missing a sweep path")
	ErrMissingPoint   = errors.New("request is missing a point")
	ErrMissingTarget  = errors.New("request is missing a target position or rotation")
	ErrInvalidConfig  = errors.New("invalid server configuration")
	ErrBodyTooLarge   = errors.New("request body too large")
	ErrMalformedBody  = errors.New("malformed request body")
	ErrSceneLoad      = errors.New("scene load failed")
	ErrListenerFailed = errors.New("failed to create listener")
)

// ErrorCode is the numeric code carried in error envelopes so clients can
// branch without string matching.
type ErrorCode int

const (
	ErrorCodeSuccess ErrorCode = 0

	// Request error codes (1000-1999)

	ErrorCodeBadRequest     ErrorCode = 1001
	ErrorCodeUnknownOp      ErrorCode = 1002
	ErrorCodeMalformedShape ErrorCode = 1003
	ErrorCodeInvalidShape   ErrorCode = 1004
	ErrorCodeBodyTooLarge   ErrorCode = 1005

	// Entity error codes (2000-2999)

	ErrorCodeEntityNotFound ErrorCode = 2001

	// Server error codes (9000-9999)

	ErrorCodeServerClosed ErrorCode = 9001
	ErrorCodeInternal     ErrorCode = 9003
)

// codeFor maps an error to its wire code. Wrapped causes are honored, so a
// malformed-shape error whose cause is a dimension error reports the more
// specific invalid-shape code.
func codeFor(err error) ErrorCode {
	switch {
	case err == nil:
		return ErrorCodeSuccess
	case errors.Is(err, shapes.ErrNegativeDimension),
		errors.Is(err, shapes.ErrInvertedShell),
		errors.Is(err, shapes.ErrNotFinite):
		return ErrorCodeInvalidShape
	case errors.Is(err, shapes.ErrMalformedShape),
		errors.Is(err, shapes.ErrUnknownKind):
		return ErrorCodeMalformedShape
	case errors.Is(err, world.ErrEntityNotFound):
		return ErrorCodeEntityNotFound
	case errors.Is(err, ErrUnknownOp):
		return ErrorCodeUnknownOp
	case errors.Is(err, ErrBodyTooLarge):
		return ErrorCodeBodyTooLarge
	case errors.Is(err, ErrMissingShape),
		errors.Is(err, ErrMissingEntity),
		errors.Is(err, ErrMissingPath),
		errors.Is(err, ErrMissingPoint),
		errors.Is(err, ErrMissingTarget),
		errors.Is(err, ErrMalformedBody),
		errors.Is(err, world.ErrNilShape):
		return ErrorCodeBadRequest
	case errors.Is(err, ErrServerClosed):
		return ErrorCodeServerClosed
	default:
		return ErrorCodeInternal
	}
}

func httpStatus(code ErrorCode) int {
	switch code {
	case ErrorCodeSuccess:
		return http.StatusOK
	case ErrorCodeBadRequest, ErrorCodeUnknownOp, ErrorCodeMalformedShape, ErrorCodeInvalidShape:
		return http.StatusBadRequest
	case ErrorCodeBodyTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrorCodeEntityNotFound:
		return http.StatusNotFound
	case ErrorCodeServerClosed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

package client

import (
	"errors"
	"fmt"

	"github.com/geomsync/geomsync/internal/server"
)

var (
	ErrClientClosed     = errors.New("client is closed")
	ErrNotConnected     = errors.New("client is not connected to the event stream")
	ErrAlreadyConnected = errors.New("client is already connected to the event stream")
)

// APIError is a failed envelope reported by the service. The code mirrors
// the server's error ranges so callers can branch without string matching.
type APIError struct {
	Code    server.ErrorCode
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is the service's entity-not-found reply.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == server.ErrorCodeEntityNotFound
}

package shapes

import "errors"

var (
	// ErrNegativeDimension reports a radius, height, extent or scale factor
	// below zero.
	ErrNegativeDimension = errors.New("shapes: negative dimension")

	// ErrInvertedShell reports an inner radius larger than the outer one.
	ErrInvertedShell = errors.New("shapes: inner radius exceeds outer")

	// ErrNotFinite reports a NaN parameter.
	ErrNotFinite = errors.New("shapes: parameter is not finite")

	// ErrUnknownKind reports a kind tag outside the closed variant set.
	ErrUnknownKind = errors.New("shapes: unknown shape kind")

	// ErrMalformedShape reports wire data that does not decode into a valid
	// shape.
	ErrMalformedShape = errors.New("shapes: malformed shape")
)

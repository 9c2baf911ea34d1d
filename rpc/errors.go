package rpc

import "errors"

// Errors returned by the rpc package. They abstract dispatch and routing
// failures so callers can match with errors.Is regardless of transport.
var (
	// ErrNoSuchTarget is returned when no server is registered for the
	// request's target topic.
	ErrNoSuchTarget = errors.New("no server registered for target")

	// ErrNoSuchMethod is returned when dispatch cannot resolve the request's
	// method name on any registered endpoint.
	ErrNoSuchMethod = errors.New("no such method")

	// ErrInvalidMethodSignature is returned when a method resolved by name
	// does not have the (context.Context, Args) (interface{}, error) shape.
	ErrInvalidMethodSignature = errors.New("invalid method signature")

	// ErrNilTransport is returned when a client is constructed without a
	// transport.
	ErrNilTransport = errors.New("transport must not be nil")
)

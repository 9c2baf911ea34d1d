package tracer

import (
	"context"
)

// Tracer provides distributed tracing capabilities for applications.
// It wraps OpenTelemetry functionality with a simplified interface
// for creating spans with a kind and attributes, recording errors,
// and setting statuses.
//
// This interface is implemented by the concrete *TracerClient type.
type Tracer interface {
	// StartSpan creates a new span with the given name and options.
	// The span is automatically attached to the parent span in the context (if any).
	// Returns a new context with the span and the span itself.
	// Always call span.End() when the operation completes (typically via defer).
	StartSpan(ctx context.Context, name string, opts ...StartOption) (context.Context, Span)
}

// Kind distinguishes who initiated the operation a span describes.
// It is forwarded to the observability backend and does not affect
// any logic in this package.
type Kind int

const (
	// KindInternal marks a span describing an in-process operation.
	KindInternal Kind = iota

	// KindClient marks a span describing an outbound request.
	KindClient

	// KindServer marks a span describing the handling of an inbound request.
	KindServer
)

// Status is the outcome recorded on a span.
type Status int

const (
	// StatusUnset leaves the outcome undecided; backends usually treat it as success.
	StatusUnset Status = iota

	// StatusOK marks the operation as successful.
	StatusOK

	// StatusError marks the operation as failed.
	StatusError
)

// Span represents a trace span for tracking operations in distributed systems.
//
// The Span interface abstracts the underlying OpenTelemetry implementation,
// providing a clean API for interacting with spans without a direct dependency
// on the tracing library. Each span is owned by the code that started it and
// must be ended exactly once; re-ending an already ended span is absorbed by
// the underlying SDK and never panics.
type Span interface {
	// End completes the span and hands it to the configured span processor.
	// End is synchronous and non-blocking; any export happens inside the
	// SDK's own pipeline.
	End()

	// SetAttributes adds key-value pairs of attributes to the span.
	// Supports strings, ints, int64s, float64s, and bools; other types are
	// converted with fmt.Sprint.
	SetAttributes(attrs map[string]interface{})

	// RecordError records the error as an exception event on the span and
	// sets the span status to error. It never alters the error itself.
	RecordError(err error)

	// SetStatus sets the span's outcome. The description is only recorded
	// for StatusError, mirroring the OpenTelemetry API.
	SetStatus(status Status, description string)
}

// StartOption configures a span at start time.
type StartOption func(*startOptions)

type startOptions struct {
	kind  Kind
	attrs map[string]interface{}
}

// WithKind sets the span kind. Defaults to KindInternal.
func WithKind(kind Kind) StartOption {
	return func(o *startOptions) {
		o.kind = kind
	}
}

// WithAttributes sets attributes that are present from the very start of the
// span, so samplers can see them.
func WithAttributes(attrs map[string]interface{}) StartOption {
	return func(o *startOptions) {
		o.attrs = attrs
	}
}

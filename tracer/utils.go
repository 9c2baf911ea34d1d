package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	traceSpan "go.opentelemetry.io/otel/trace"
)

// spanImpl is an internal implementation of the Span interface
// that wraps an OpenTelemetry span. This type handles the conversion
// between the simplified API and the underlying OpenTelemetry functionality.
type spanImpl struct {
	span traceSpan.Span
}

// End implements the Span interface by ending the underlying OpenTelemetry span.
// The SDK guarantees that ending a span more than once only takes effect the
// first time, so a stray second End is harmless.
func (s *spanImpl) End() {
	s.span.End()
}

// SetAttributes implements the Span interface by adding attributes to the span.
//
// The method accepts a map of key-value pairs and handles type conversion for
// common Go types; unsupported types are converted to strings with fmt.Sprint.
// An empty map is a no-op.
func (s *spanImpl) SetAttributes(attrs map[string]interface{}) {
	if len(attrs) == 0 {
		return
	}

	s.span.SetAttributes(convertAttributes(attrs)...)
}

// RecordError implements the Span interface by recording an error on the span.
// It records the error event with its details and sets the span's status to
// Error with the error message as the description. The error itself is not
// modified and keeps propagating to the caller untouched.
func (s *spanImpl) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetStatus implements the Span interface by setting the span's outcome.
func (s *spanImpl) SetStatus(status Status, description string) {
	switch status {
	case StatusOK:
		s.span.SetStatus(codes.Ok, "")
	case StatusError:
		s.span.SetStatus(codes.Error, description)
	default:
		s.span.SetStatus(codes.Unset, "")
	}
}

// convertAttributes converts a generic attribute map to OpenTelemetry
// attribute key-values.
func convertAttributes(attrs map[string]interface{}) []attribute.KeyValue {
	attributes := make([]attribute.KeyValue, 0, len(attrs))

	for k, v := range attrs {
		switch val := v.(type) {
		case string:
			attributes = append(attributes, attribute.String(k, val))
		case int:
			attributes = append(attributes, attribute.Int(k, val))
		case int64:
			attributes = append(attributes, attribute.Int64(k, val))
		case float64:
			attributes = append(attributes, attribute.Float64(k, val))
		case bool:
			attributes = append(attributes, attribute.Bool(k, val))
		default:
			// For unsupported types, convert to string
			attributes = append(attributes, attribute.String(k, fmt.Sprint(val)))
		}
	}

	return attributes
}

// convertKind maps the package's Kind to the OpenTelemetry span kind.
func convertKind(kind Kind) traceSpan.SpanKind {
	switch kind {
	case KindClient:
		return traceSpan.SpanKindClient
	case KindServer:
		return traceSpan.SpanKindServer
	default:
		return traceSpan.SpanKindInternal
	}
}

// StartSpan creates a new span with the given name and options, returning an
// updated context containing the span along with the Span itself.
//
// The created span becomes a child of any span present in the provided context.
// If no span exists in the context, a new root span is created. Span kind and
// start-time attributes are set through options:
//
//	ctx, span := client.StartSpan(ctx, "msgrpc.rpc.call.hello",
//	    tracer.WithKind(tracer.KindClient),
//	    tracer.WithAttributes(map[string]interface{}{"rpc.method": "hello"}),
//	)
//	defer span.End()
func (t *TracerClient) StartSpan(ctx context.Context, name string, opts ...StartOption) (context.Context, Span) {
	options := startOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	startOpts := []traceSpan.SpanStartOption{
		traceSpan.WithSpanKind(convertKind(options.kind)),
	}
	if len(options.attrs) > 0 {
		startOpts = append(startOpts, traceSpan.WithAttributes(convertAttributes(options.attrs)...))
	}

	tr := t.provider.Tracer(scopeName)
	ctx, otSpan := tr.Start(ctx, name, startOpts...)

	return ctx, &spanImpl{span: otSpan}
}

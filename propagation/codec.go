package propagation

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/propagation"
)

// KeyPrefix namespaces every reserved trace-propagation key inside RPC call
// metadata. Application-level metadata must not use this prefix.
//
// This prefix and the key set below are a wire contract: changing them breaks
// trace continuity between mixed-version deployments.
const KeyPrefix = "__otel."

// Reserved metadata keys written by Inject and read by Extract.
const (
	// KeyTraceParent carries the W3C traceparent header value
	// (trace id, parent span id, and sampling flags).
	KeyTraceParent = KeyPrefix + "traceparent"

	// KeyTraceState carries the W3C tracestate header value
	// (vendor-specific trace information).
	KeyTraceState = KeyPrefix + "tracestate"

	// KeyBaggage carries W3C baggage (application-defined key-value pairs
	// that follow the trace).
	KeyBaggage = KeyPrefix + "baggage"
)

// propagator handles the W3C TraceContext and Baggage formats. Sampling
// decisions ride inside traceparent; this package forwards them verbatim and
// leaves honoring them to the tracing SDK.
var propagator = propagation.NewCompositeTextMapPropagator(
	propagation.TraceContext{},
	propagation.Baggage{},
)

// prefixCarrier adapts a plain string map to the OpenTelemetry TextMapCarrier
// interface while confining all reads and writes to the reserved key space.
type prefixCarrier struct {
	metadata map[string]string
}

func (c prefixCarrier) Get(key string) string {
	return c.metadata[KeyPrefix+key]
}

func (c prefixCarrier) Set(key, value string) {
	c.metadata[KeyPrefix+key] = value
}

func (c prefixCarrier) Keys() []string {
	keys := make([]string, 0, len(c.metadata))
	for k := range c.metadata {
		if strings.HasPrefix(k, KeyPrefix) {
			keys = append(keys, strings.TrimPrefix(k, KeyPrefix))
		}
	}
	return keys
}

// Inject writes the active trace context from ctx into the carrier under the
// reserved keys, overwriting any pre-existing values under those keys and
// leaving every other key untouched. A context without an active valid span
// leaves the carrier free of reserved keys.
func Inject(ctx context.Context, carrier map[string]string) {
	if carrier == nil {
		return
	}

	// Clear first so stale trace fields from a reused metadata map can never
	// leak into a new invocation.
	for k := range carrier {
		if strings.HasPrefix(k, KeyPrefix) {
			delete(carrier, k)
		}
	}

	propagator.Inject(ctx, prefixCarrier{metadata: carrier})
}

// Extract reads the reserved keys from the carrier and returns a context
// carrying the remote trace context as parent. Absent or malformed fields are
// treated as "no context": the parent ctx comes back unchanged and the caller
// starts a new root trace. Extract never returns an error.
func Extract(ctx context.Context, carrier map[string]string) context.Context {
	if len(carrier) == 0 {
		return ctx
	}
	return propagator.Extract(ctx, prefixCarrier{metadata: carrier})
}

// HasTraceContext reports whether the carrier holds a traceparent under the
// reserved keys. It does not validate the value; Extract handles malformed
// input gracefully.
func HasTraceContext(carrier map[string]string) bool {
	_, ok := carrier[KeyTraceParent]
	return ok
}

package propagation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// newSpanContext starts a recording span so the test context carries a valid
// trace context to inject.
func newSpanContext(t *testing.T) (context.Context, trace.SpanContext) {
	t.Helper()
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	t.Cleanup(func() { span.End() })
	return ctx, span.SpanContext()
}

func TestInject_WritesReservedKeys(t *testing.T) {
	t.Parallel()
	ctx, sc := newSpanContext(t)

	carrier := map[string]string{}
	Inject(ctx, carrier)

	require.Contains(t, carrier, KeyTraceParent)
	assert.Contains(t, carrier[KeyTraceParent], sc.TraceID().String())
}

func TestInject_LeavesApplicationKeysUntouched(t *testing.T) {
	t.Parallel()
	ctx, _ := newSpanContext(t)

	carrier := map[string]string{
		"request_id": "abc-123",
		"tenant":     "acme",
	}
	Inject(ctx, carrier)

	assert.Equal(t, "abc-123", carrier["request_id"])
	assert.Equal(t, "acme", carrier["tenant"])
}

func TestInject_OverwritesStaleReservedKeys(t *testing.T) {
	t.Parallel()
	ctx, sc := newSpanContext(t)

	carrier := map[string]string{
		KeyTraceParent: "00-ffffffffffffffffffffffffffffffff-ffffffffffffffff-01",
		KeyTraceState:  "vendor=stale",
	}
	Inject(ctx, carrier)

	assert.Contains(t, carrier[KeyTraceParent], sc.TraceID().String())
	assert.NotContains(t, carrier, KeyTraceState)
}

func TestInject_NoActiveSpan(t *testing.T) {
	t.Parallel()
	carrier := map[string]string{
		KeyTraceParent: "00-ffffffffffffffffffffffffffffffff-ffffffffffffffff-01",
		"request_id":   "abc-123",
	}
	Inject(context.Background(), carrier)

	// Stale trace fields are cleared, application keys survive.
	assert.NotContains(t, carrier, KeyTraceParent)
	assert.Equal(t, "abc-123", carrier["request_id"])
}

func TestInject_NilCarrier(t *testing.T) {
	t.Parallel()
	ctx, _ := newSpanContext(t)
	assert.NotPanics(t, func() { Inject(ctx, nil) })
}

func TestExtract_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx, sc := newSpanContext(t)

	carrier := map[string]string{}
	Inject(ctx, carrier)

	extracted := Extract(context.Background(), carrier)
	remote := trace.SpanContextFromContext(extracted)

	require.True(t, remote.IsValid())
	assert.Equal(t, sc.TraceID(), remote.TraceID())
	assert.Equal(t, sc.SpanID(), remote.SpanID())
	assert.Equal(t, sc.IsSampled(), remote.IsSampled())
	assert.True(t, remote.IsRemote())
}

func TestExtract_AbsentKeys(t *testing.T) {
	t.Parallel()
	parent := context.Background()

	extracted := Extract(parent, map[string]string{"request_id": "abc-123"})

	assert.False(t, trace.SpanContextFromContext(extracted).IsValid())
}

func TestExtract_EmptyCarrier(t *testing.T) {
	t.Parallel()
	parent := context.Background()

	assert.Equal(t, parent, Extract(parent, map[string]string{}))
	assert.Equal(t, parent, Extract(parent, nil))
}

func TestExtract_MalformedTraceParent(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		value string
	}{
		{"non hex trace id", "00-zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz-00f067aa0ba902b7-01"},
		{"truncated", "00-4bf92f"},
		{"empty", ""},
		{"garbage", "not a traceparent at all"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			extracted := Extract(context.Background(), map[string]string{
				KeyTraceParent: tc.value,
			})

			// Malformed values behave exactly like absent ones.
			assert.False(t, trace.SpanContextFromContext(extracted).IsValid())
		})
	}
}

func TestExtract_IgnoresUnprefixedTraceParent(t *testing.T) {
	t.Parallel()
	// A plain "traceparent" key outside the reserved namespace belongs to the
	// application, not to this codec.
	extracted := Extract(context.Background(), map[string]string{
		"traceparent": "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
	})

	assert.False(t, trace.SpanContextFromContext(extracted).IsValid())
}

func TestHasTraceContext(t *testing.T) {
	t.Parallel()
	assert.False(t, HasTraceContext(map[string]string{}))
	assert.False(t, HasTraceContext(map[string]string{"traceparent": "x"}))
	assert.True(t, HasTraceContext(map[string]string{KeyTraceParent: "x"}))
}

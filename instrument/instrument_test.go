package instrument

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/aalemi-dev/msgrpc-lab/propagation"
	"github.com/aalemi-dev/msgrpc-lab/rpc"
	"github.com/aalemi-dev/msgrpc-lab/tracer"
)

// The tests in this file swap the process-wide rpc entry points and therefore
// never run in parallel.

var errIndexDown = errors.New("index is rebuilding")

type greeterEndpoint struct {
	mu    sync.Mutex
	casts []string
}

func (g *greeterEndpoint) Hello(ctx context.Context, args rpc.Args) (interface{}, error) {
	return fmt.Sprintf("Hello, %v!", args["name"]), nil
}

func (g *greeterEndpoint) Fail(ctx context.Context, args rpc.Args) (interface{}, error) {
	return nil, errIndexDown
}

func (g *greeterEndpoint) Notify(ctx context.Context, args rpc.Args) (interface{}, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.casts = append(g.casts, fmt.Sprint(args["event"]))
	return nil, nil
}

// setupInstrumented activates a fresh instrumentor against a recording
// provider and wires a client/server pair over the in-memory transport.
func setupInstrumented(t *testing.T, opts ...Option) (*rpc.Client, *rpc.Server, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	instrumentor := New()
	require.NoError(t, instrumentor.Instrument(append([]Option{WithTracerProvider(provider)}, opts...)...))
	t.Cleanup(func() {
		require.NoError(t, instrumentor.Uninstrument())
	})

	transport := rpc.NewInMemTransport()
	server := rpc.NewServer(rpc.Target{Topic: "test_topic"}, &greeterEndpoint{})
	transport.RegisterServer(server)

	client, err := rpc.NewClient(transport)
	require.NoError(t, err)
	return client, server, recorder
}

func findSpan(t *testing.T, spans []sdktrace.ReadOnlySpan, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, s := range spans {
		if s.Name() == name {
			return s
		}
	}
	t.Fatalf("no span named %q among %d recorded spans", name, len(spans))
	return nil
}

func attrValue(s sdktrace.ReadOnlySpan, key string) (string, bool) {
	for _, kv := range s.Attributes() {
		if string(kv.Key) == key {
			return kv.Value.Emit(), true
		}
	}
	return "", false
}

func assertAttr(t *testing.T, s sdktrace.ReadOnlySpan, key, want string) {
	t.Helper()
	got, ok := attrValue(s, key)
	require.True(t, ok, "span %q is missing attribute %q", s.Name(), key)
	assert.Equal(t, want, got)
}

// --- Client and server spans on a successful call ---

func TestCall_ProducesClientAndServerSpans(t *testing.T) {
	client, _, recorder := setupInstrumented(t)

	result, err := client.Call(context.Background(), rpc.Target{Topic: "test_topic"}, "hello", rpc.Args{"name": "world"})

	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", result)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	clientSpan := findSpan(t, spans, "msgrpc.rpc.call.hello")
	serverSpan := findSpan(t, spans, "msgrpc.rpc.server.hello")

	assert.Equal(t, trace.SpanKindClient, clientSpan.SpanKind())
	assert.Equal(t, trace.SpanKindServer, serverSpan.SpanKind())

	assert.Equal(t, codes.Ok, clientSpan.Status().Code)
	assert.Equal(t, codes.Ok, serverSpan.Status().Code)
}

func TestCall_ServerSpanJoinsClientTrace(t *testing.T) {
	client, _, recorder := setupInstrumented(t)

	_, err := client.Call(context.Background(), rpc.Target{Topic: "test_topic"}, "hello", rpc.Args{"name": "world"})
	require.NoError(t, err)

	spans := recorder.Ended()
	clientSpan := findSpan(t, spans, "msgrpc.rpc.call.hello")
	serverSpan := findSpan(t, spans, "msgrpc.rpc.server.hello")

	assert.Equal(t, clientSpan.SpanContext().TraceID(), serverSpan.SpanContext().TraceID())
	assert.Equal(t, clientSpan.SpanContext().SpanID(), serverSpan.Parent().SpanID())
	assert.True(t, serverSpan.Parent().IsRemote())
}

func TestCall_SpanAttributes(t *testing.T) {
	client, _, recorder := setupInstrumented(t)

	_, err := client.Call(context.Background(), rpc.Target{Topic: "test_topic"}, "hello", rpc.Args{"name": "world"})
	require.NoError(t, err)

	for _, name := range []string{"msgrpc.rpc.call.hello", "msgrpc.rpc.server.hello"} {
		s := findSpan(t, recorder.Ended(), name)
		assertAttr(t, s, AttrRPCSystem, "msgrpc")
		assertAttr(t, s, AttrRPCMethod, "hello")
		assertAttr(t, s, AttrRPCTarget, "test_topic")
		assertAttr(t, s, AttrOperation, "call")
	}
}

func TestCall_JoinsCallerTrace(t *testing.T) {
	client, _, recorder := setupInstrumented(t)

	// An ambient span in the caller's context becomes the client span's parent.
	tr := tracer.NewFromProvider(sdktrace.NewTracerProvider())
	ctx, ambient := tr.StartSpan(context.Background(), "caller.unit.of.work")
	defer ambient.End()

	_, err := client.Call(ctx, rpc.Target{Topic: "test_topic"}, "hello", rpc.Args{"name": "world"})
	require.NoError(t, err)

	clientSpan := findSpan(t, recorder.Ended(), "msgrpc.rpc.call.hello")
	assert.Equal(t, trace.SpanContextFromContext(ctx).TraceID(), clientSpan.SpanContext().TraceID())
	assert.Equal(t, trace.SpanContextFromContext(ctx).SpanID(), clientSpan.Parent().SpanID())
}

// --- Error transparency ---

func TestCall_EndpointErrorReachesCallerUnchanged(t *testing.T) {
	client, _, recorder := setupInstrumented(t)

	_, err := client.Call(context.Background(), rpc.Target{Topic: "test_topic"}, "fail", nil)

	// The exact error value the endpoint returned, not a copy or a wrap.
	assert.Equal(t, errIndexDown, err)

	clientSpan := findSpan(t, recorder.Ended(), "msgrpc.rpc.call.fail")
	serverSpan := findSpan(t, recorder.Ended(), "msgrpc.rpc.server.fail")
	assert.Equal(t, codes.Error, clientSpan.Status().Code)
	assert.Equal(t, codes.Error, serverSpan.Status().Code)
}

func TestCall_EndpointErrorRecordedAsException(t *testing.T) {
	client, _, recorder := setupInstrumented(t)

	_, err := client.Call(context.Background(), rpc.Target{Topic: "test_topic"}, "fail", nil)
	require.Error(t, err)

	serverSpan := findSpan(t, recorder.Ended(), "msgrpc.rpc.server.fail")
	require.NotEmpty(t, serverSpan.Events())
	assert.Equal(t, "exception", serverSpan.Events()[0].Name)
}

func TestCall_DispatchFailureCoveredByServerSpan(t *testing.T) {
	client, _, recorder := setupInstrumented(t)

	_, err := client.Call(context.Background(), rpc.Target{Topic: "test_topic"}, "missing", nil)
	require.ErrorIs(t, err, rpc.ErrNoSuchMethod)

	// Resolution failed before any endpoint ran, yet the server span exists
	// and carries the failure.
	serverSpan := findSpan(t, recorder.Ended(), "msgrpc.rpc.server.missing")
	assert.Equal(t, codes.Error, serverSpan.Status().Code)
}

// --- Casts ---

func TestCast_ProducesSpans(t *testing.T) {
	client, _, recorder := setupInstrumented(t)

	err := client.Cast(context.Background(), rpc.Target{Topic: "test_topic"}, "notify", rpc.Args{"event": "reindex"})
	require.NoError(t, err)

	clientSpan := findSpan(t, recorder.Ended(), "msgrpc.rpc.cast.notify")
	serverSpan := findSpan(t, recorder.Ended(), "msgrpc.rpc.server.notify")

	assert.Equal(t, trace.SpanKindClient, clientSpan.SpanKind())
	assertAttr(t, clientSpan, AttrOperation, "cast")
	assert.Equal(t, clientSpan.SpanContext().TraceID(), serverSpan.SpanContext().TraceID())
}

func TestCast_ClientSpanOkDespiteEndpointError(t *testing.T) {
	client, _, recorder := setupInstrumented(t)

	// Casts cannot see the remote outcome; the client span reflects only the
	// local hand-off.
	require.NoError(t, client.Cast(context.Background(), rpc.Target{Topic: "test_topic"}, "fail", nil))

	clientSpan := findSpan(t, recorder.Ended(), "msgrpc.rpc.cast.fail")
	serverSpan := findSpan(t, recorder.Ended(), "msgrpc.rpc.server.fail")
	assert.Equal(t, codes.Ok, clientSpan.Status().Code)
	assert.Equal(t, codes.Error, serverSpan.Status().Code)
}

// --- Server span without propagated context ---

func TestDispatch_WithoutMetadataStartsNewRoot(t *testing.T) {
	_, server, recorder := setupInstrumented(t)

	resp, err := server.Dispatch(context.Background(), &rpc.Request{
		Target: rpc.Target{Topic: "test_topic"},
		Method: "hello",
		Kind:   rpc.KindCall,
		Args:   rpc.Args{"name": "direct"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello, direct!", resp.Result)

	serverSpan := findSpan(t, recorder.Ended(), "msgrpc.rpc.server.hello")
	assert.False(t, serverSpan.Parent().IsValid())
}

// --- Metadata handling ---

type capturingTransport struct {
	rpc.Transport
	lastMetadata rpc.Metadata
}

func (c *capturingTransport) Call(ctx context.Context, req *rpc.Request) (*rpc.Response, error) {
	c.lastMetadata = req.Metadata
	return c.Transport.Call(ctx, req)
}

func TestCall_MetadataCarriesOnlyReservedKeys(t *testing.T) {
	_, _, recorder := setupInstrumented(t)

	inner := rpc.NewInMemTransport()
	inner.RegisterServer(rpc.NewServer(rpc.Target{Topic: "test_topic"}, &greeterEndpoint{}))
	capture := &capturingTransport{Transport: inner}

	client, err := rpc.NewClient(capture)
	require.NoError(t, err)

	_, err = client.Call(context.Background(), rpc.Target{Topic: "test_topic"}, "hello", rpc.Args{"name": "world"})
	require.NoError(t, err)
	require.NotEmpty(t, recorder.Ended())

	require.True(t, propagation.HasTraceContext(capture.lastMetadata))
	for k := range capture.lastMetadata {
		assert.Contains(t, k, propagation.KeyPrefix)
	}
}

// --- Tracing backend failure isolation ---

type panickyTracer struct{}

func (panickyTracer) StartSpan(ctx context.Context, name string, opts ...tracer.StartOption) (context.Context, tracer.Span) {
	panic("collector exploded")
}

type panickySpan struct{}

func (panickySpan) End()                                 { panic("end exploded") }
func (panickySpan) SetAttributes(map[string]interface{}) { panic("attrs exploded") }
func (panickySpan) RecordError(error)                    { panic("record exploded") }
func (panickySpan) SetStatus(tracer.Status, string)      { panic("status exploded") }

type panickySpanTracer struct{}

func (panickySpanTracer) StartSpan(ctx context.Context, name string, opts ...tracer.StartOption) (context.Context, tracer.Span) {
	return ctx, panickySpan{}
}

type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingLogger) InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	r.record(msg)
}

func (r *recordingLogger) ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	r.record(msg)
}

func (r *recordingLogger) record(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func TestCall_SurvivesPanickingSpanStart(t *testing.T) {
	log := &recordingLogger{}

	instrumentor := New()
	require.NoError(t, instrumentor.Instrument(WithTracer(panickyTracer{}), WithLogger(log)))
	t.Cleanup(func() {
		require.NoError(t, instrumentor.Uninstrument())
	})

	transport := rpc.NewInMemTransport()
	transport.RegisterServer(rpc.NewServer(rpc.Target{Topic: "test_topic"}, &greeterEndpoint{}))
	client, err := rpc.NewClient(transport)
	require.NoError(t, err)

	result, err := client.Call(context.Background(), rpc.Target{Topic: "test_topic"}, "hello", rpc.Args{"name": "world"})

	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", result)
	assert.Contains(t, log.messages, "tracing backend failure suppressed")
}

func TestCall_SurvivesPanickingSpanOperations(t *testing.T) {
	instrumentor := New()
	require.NoError(t, instrumentor.Instrument(WithTracer(panickySpanTracer{})))
	t.Cleanup(func() {
		require.NoError(t, instrumentor.Uninstrument())
	})

	transport := rpc.NewInMemTransport()
	transport.RegisterServer(rpc.NewServer(rpc.Target{Topic: "test_topic"}, &greeterEndpoint{}))
	client, err := rpc.NewClient(transport)
	require.NoError(t, err)

	result, err := client.Call(context.Background(), rpc.Target{Topic: "test_topic"}, "hello", rpc.Args{"name": "world"})

	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", result)

	// Endpoint errors must survive a broken backend too.
	_, err = client.Call(context.Background(), rpc.Target{Topic: "test_topic"}, "fail", nil)
	assert.Equal(t, errIndexDown, err)
}

// --- Endpoint panic propagation ---

type volatileEndpoint struct{}

func (volatileEndpoint) Explode(ctx context.Context, args rpc.Args) (interface{}, error) {
	panic("endpoint blew up")
}

func TestCall_EndpointPanicPropagatesAndSpanEnds(t *testing.T) {
	_, _, recorder := setupInstrumented(t)

	transport := rpc.NewInMemTransport()
	transport.RegisterServer(rpc.NewServer(rpc.Target{Topic: "volatile"}, volatileEndpoint{}))
	client, err := rpc.NewClient(transport)
	require.NoError(t, err)

	assert.PanicsWithValue(t, "endpoint blew up", func() {
		_, _ = client.Call(context.Background(), rpc.Target{Topic: "volatile"}, "explode", nil)
	})

	// Both spans ended on the way out of the panic.
	spans := recorder.Ended()
	clientSpan := findSpan(t, spans, "msgrpc.rpc.call.explode")
	serverSpan := findSpan(t, spans, "msgrpc.rpc.server.explode")
	assert.Equal(t, codes.Error, clientSpan.Status().Code)
	assert.Equal(t, codes.Error, serverSpan.Status().Code)
}

package instrument

import (
	"context"
	"reflect"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/aalemi-dev/msgrpc-lab/observability"
	"github.com/aalemi-dev/msgrpc-lab/rpc"
	"github.com/aalemi-dev/msgrpc-lab/tracer"
)

// Logger is the subset of the logger package's interface consumed here.
// Declaring it locally keeps the instrument package free of a hard dependency
// on a concrete logger implementation.
type Logger interface {
	// InfoWithContext logs an informational message with trace context.
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// ErrorWithContext logs an error message with trace context.
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Instrumentor installs and removes the tracing interceptors on the rpc
// package's process-wide entry points. It remembers the entry points it
// replaced so Uninstrument can restore them, and it tracks what it installed
// so a foreign replacement is detected rather than clobbered.
//
// All methods are safe for concurrent use. The zero value is not usable;
// construct with New.
type Instrumentor struct {
	mu           sync.Mutex
	instrumented bool

	tracer   tracer.Tracer
	logger   Logger
	observer observability.Observer

	savedCall     rpc.CallFunc
	savedDispatch rpc.DispatchFunc

	installedCall     uintptr
	installedDispatch uintptr
}

// Option configures an Instrumentor at activation time.
type Option func(*Instrumentor)

// WithTracer supplies the span factory the interceptors use. Defaults to a
// tracer backed by the global OpenTelemetry TracerProvider.
func WithTracer(t tracer.Tracer) Option {
	return func(i *Instrumentor) {
		i.tracer = t
	}
}

// WithTracerProvider supplies an externally owned OpenTelemetry
// TracerProvider. The instrumentor never shuts it down.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(i *Instrumentor) {
		i.tracer = tracer.NewFromProvider(tp)
	}
}

// WithLogger attaches a logger for activation events and suppressed
// tracing-backend failures.
func WithLogger(logger Logger) Option {
	return func(i *Instrumentor) {
		i.logger = logger
	}
}

// WithObserver attaches an observer notified on instrument and uninstrument.
func WithObserver(observer observability.Observer) Option {
	return func(i *Instrumentor) {
		i.observer = observer
	}
}

// New creates an inactive Instrumentor. Call Instrument to activate it.
func New() *Instrumentor {
	return &Instrumentor{}
}

// Instrument wraps the rpc entry points with the tracing interceptors.
// Calling it while already instrumented is a no-op returning nil; the
// interceptors are never stacked on themselves. Options are applied only on
// the activating call.
//
// Clients and servers constructed before or after Instrument are equally
// covered, since the entry points are read at invocation time.
func (i *Instrumentor) Instrument(opts ...Option) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.instrumented {
		return nil
	}

	for _, opt := range opts {
		opt(i)
	}
	if i.tracer == nil {
		i.tracer = tracer.NewDefault()
	}

	i.savedCall = rpc.ClientEntryPoint()
	i.savedDispatch = rpc.DispatchEntryPoint()

	wrappedCall := i.wrapClient(i.savedCall)
	wrappedDispatch := i.wrapDispatch(i.savedDispatch)

	rpc.SetClientEntryPoint(wrappedCall)
	rpc.SetDispatchEntryPoint(wrappedDispatch)

	i.installedCall = reflect.ValueOf(wrappedCall).Pointer()
	i.installedDispatch = reflect.ValueOf(wrappedDispatch).Pointer()
	i.instrumented = true

	if i.logger != nil {
		i.logger.InfoWithContext(context.Background(), "rpc tracing instrumentation activated", nil)
	}
	i.observeOperation("instrument", nil)

	return nil
}

// Uninstrument restores the entry points saved by Instrument. Calling it
// while not instrumented is a no-op returning nil. If the current entry
// points are not the ones Instrument installed, something replaced them
// afterwards; Uninstrument leaves everything in place and returns
// ErrEntryPointMismatch.
func (i *Instrumentor) Uninstrument() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.instrumented {
		return nil
	}

	currentCall := reflect.ValueOf(rpc.ClientEntryPoint()).Pointer()
	currentDispatch := reflect.ValueOf(rpc.DispatchEntryPoint()).Pointer()
	if currentCall != i.installedCall || currentDispatch != i.installedDispatch {
		i.observeOperation("uninstrument", ErrEntryPointMismatch)
		return ErrEntryPointMismatch
	}

	rpc.SetClientEntryPoint(i.savedCall)
	rpc.SetDispatchEntryPoint(i.savedDispatch)

	i.savedCall = nil
	i.savedDispatch = nil
	i.installedCall = 0
	i.installedDispatch = 0
	i.instrumented = false

	if i.logger != nil {
		i.logger.InfoWithContext(context.Background(), "rpc tracing instrumentation deactivated", nil)
	}
	i.observeOperation("uninstrument", nil)

	return nil
}

// IsInstrumented reports whether this instrumentor currently holds the entry
// points.
func (i *Instrumentor) IsInstrumented() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.instrumented
}

// observeOperation safely calls the observer if it's not nil.
// Callers hold i.mu.
func (i *Instrumentor) observeOperation(operation string, err error) {
	if i.observer != nil {
		i.observer.ObserveOperation(observability.OperationContext{
			Component: "instrument",
			Operation: operation,
			Duration:  time.Duration(0),
			Error:     err,
		})
	}
}

// defaultInstrumentor backs the package-level convenience functions.
var defaultInstrumentor = New()

// Instrument activates the package-level instrumentor. See
// (*Instrumentor).Instrument.
func Instrument(opts ...Option) error {
	return defaultInstrumentor.Instrument(opts...)
}

// Uninstrument deactivates the package-level instrumentor. See
// (*Instrumentor).Uninstrument.
func Uninstrument() error {
	return defaultInstrumentor.Uninstrument()
}

// IsInstrumented reports whether the package-level instrumentor is active.
func IsInstrumented() bool {
	return defaultInstrumentor.IsInstrumented()
}

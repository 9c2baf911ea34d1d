package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// scopeName is the instrumentation scope recorded on every span created
// through this package.
const scopeName = "github.com/aalemi-dev/msgrpc-lab/tracer"

// TracerClient provides a simplified API for distributed tracing with OpenTelemetry.
// It wraps a TracerProvider and provides convenient methods for creating spans
// with a kind and start attributes, recording errors, and setting statuses.
//
// The TracerClient is designed to be thread-safe and can be shared across goroutines.
// It implements the Tracer interface.
type TracerClient struct {
	provider trace.TracerProvider

	// shutdown releases the provider's resources. It is nil when the
	// provider was supplied externally via NewFromProvider, in which case
	// its lifetime stays with the owner.
	shutdown func(context.Context) error
}

// NewClient creates and initializes a new TracerClient instance with OpenTelemetry.
// This function sets up an SDK tracer provider with the provided configuration,
// configures an OTLP/HTTP trace exporter if export is enabled, and registers the
// provider and a W3C TraceContext+Baggage propagator globally.
//
// The configured resource attributes include the service name, the deployment
// environment, and an "environment" tag.
//
// Example:
//
//	tracerClient, err := tracer.NewClient(tracer.Config{
//	    ServiceName:  "rpc-worker",
//	    AppEnv:       "production",
//	    EnableExport: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewClient(cfg Config) (*TracerClient, error) {
	var options []sdktrace.TracerProviderOption

	if cfg.EnableExport {
		client := otlptracehttp.NewClient()
		exporter, err := otlptrace.New(context.Background(), client)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OTLP exporter: %w", err)
		}
		options = append(options, sdktrace.WithBatcher(exporter))
	}

	options = append(options, sdktrace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.AppEnv),
		attribute.String("environment", cfg.AppEnv),
	)))

	tp := sdktrace.NewTracerProvider(options...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return &TracerClient{
		provider: tp,
		shutdown: tp.Shutdown,
	}, nil
}

// NewFromProvider wraps an externally supplied TracerProvider.
// The returned client never shuts the provider down and registers nothing
// globally; use this when the application owns its own OpenTelemetry pipeline
// or when tests supply a recording provider.
func NewFromProvider(tp trace.TracerProvider) *TracerClient {
	return &TracerClient{provider: tp}
}

// NewDefault returns a TracerClient backed by the process-wide global
// TracerProvider. Spans go wherever the global provider sends them; if no
// SDK has been installed they are no-ops.
func NewDefault() *TracerClient {
	return &TracerClient{provider: otel.GetTracerProvider()}
}

// Shutdown flushes and releases the underlying provider when this client owns
// it. It is a no-op for clients built with NewFromProvider or NewDefault.
func (t *TracerClient) Shutdown(ctx context.Context) error {
	if t.shutdown == nil {
		return nil
	}
	return t.shutdown(ctx)
}

package tracer

// Config defines the configuration for the OpenTelemetry tracer.
// It controls service identification, environment settings, and whether
// traces should be exported to an observability backend.
type Config struct {
	// ServiceName specifies the name of the service using this tracer.
	// This field is required and will appear in traces to identify the service
	// that generated the spans.
	//
	// Example values: "rpc-gateway", "compute-worker"
	ServiceName string

	// AppEnv indicates the deployment environment where the service is running.
	// This helps separate traces from different environments in your observability system.
	// Common values include "development", "staging", "production".
	//
	// This field is used to set the "deployment.environment" and "environment"
	// resource attributes on all spans.
	AppEnv string

	// EnableExport controls whether traces are exported to an observability backend.
	// When set to true, the tracer will configure an OTLP HTTP exporter to send
	// traces to a collector. When false, spans are still created and propagated
	// but never leave the process.
	//
	// Note that even when this is false, tracing remains functional for trace
	// context propagation across RPC boundaries; spans just won't be sent to
	// external systems.
	EnableExport bool
}

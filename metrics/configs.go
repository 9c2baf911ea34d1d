package metrics

// Default addresses for metrics servers if none is specified.
const (
	DefaultSystemMetricsAddress      = ":9090"
	DefaultApplicationMetricsAddress = ":9091"
)

// Config defines the configuration for the Prometheus metrics servers.
type Config struct {
	// SystemMetricsAddress is where the system metrics HTTP server listens
	// (Go runtime, process, and build info metrics).
	// nil means the default ":9090"; a pointer to "" disables the endpoint.
	SystemMetricsAddress *string `yaml:"system_metrics_address" envconfig:"METRICS_SYSTEM_ADDRESS"`

	// ApplicationMetricsAddress is where the application metrics HTTP server
	// listens (metrics created via CreateCounter, CreateGauge, etc.).
	// nil means the default ":9091"; a pointer to "" disables the endpoint.
	ApplicationMetricsAddress *string `yaml:"application_metrics_address" envconfig:"METRICS_APPLICATION_ADDRESS"`

	// ServiceName is added as a constant "service" label on every metric.
	ServiceName string `yaml:"service_name" envconfig:"METRICS_SERVICE_NAME"`
}

// Ptr returns a pointer to the given string value. Helper for disabling
// endpoints in configuration:
//
//	cfg := metrics.Config{
//	    SystemMetricsAddress: metrics.Ptr(""), // explicitly disable
//	    ServiceName:          "orders-api",
//	}
func Ptr(s string) *string {
	return &s
}

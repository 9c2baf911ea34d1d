package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates two separate Prometheus registries and HTTP servers:
// system metrics (Go runtime, process, build info) and application metrics
// (everything created through the MetricsCollector factory methods). The
// separation allows different scrape configurations and access controls.
//
// Metrics implements the MetricsCollector interface.
type Metrics struct {
	// SystemServer serves the system metrics /metrics endpoint.
	// Endpoint: SystemMetricsAddress (default: :9090)
	SystemServer *http.Server

	// ApplicationServer serves the application metrics /metrics endpoint.
	// Endpoint: ApplicationMetricsAddress (default: :9091)
	ApplicationServer *http.Server

	// SystemRegistry holds Go runtime, process, and build info collectors.
	SystemRegistry *prometheus.Registry

	// ApplicationRegistry holds all metrics created via the factory methods.
	ApplicationRegistry *prometheus.Registry

	// wrappedApplicationRegisterer adds the constant service label to every
	// registered application metric.
	wrappedApplicationRegisterer prometheus.Registerer
}

// NewMetrics initializes the registries and HTTP servers per the config.
// Either endpoint can be disabled with a pointer to an empty address. Both
// registries wrap all metrics with a constant `service` label.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{ServiceName: "orders-api"})
//	go m.SystemServer.ListenAndServe()
//	go m.ApplicationServer.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	m := &Metrics{}

	systemAddr := DefaultSystemMetricsAddress
	if cfg.SystemMetricsAddress != nil {
		systemAddr = *cfg.SystemMetricsAddress
	}

	if systemAddr != "" {
		systemRegistry := prometheus.NewRegistry()

		wrappedSystemRegistry := prometheus.WrapRegistererWith(
			prometheus.Labels{"service": cfg.ServiceName},
			systemRegistry,
		)

		wrappedSystemRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)

		m.SystemRegistry = systemRegistry
		m.SystemServer = &http.Server{
			Addr:    systemAddr,
			Handler: promhttp.HandlerFor(systemRegistry, promhttp.HandlerOpts{}),
		}
	}

	appAddr := DefaultApplicationMetricsAddress
	if cfg.ApplicationMetricsAddress != nil {
		appAddr = *cfg.ApplicationMetricsAddress
	}

	if appAddr != "" {
		applicationRegistry := prometheus.NewRegistry()

		m.ApplicationRegistry = applicationRegistry
		m.wrappedApplicationRegisterer = prometheus.WrapRegistererWith(
			prometheus.Labels{"service": cfg.ServiceName},
			applicationRegistry,
		)
		m.ApplicationServer = &http.Server{
			Addr:    appAddr,
			Handler: promhttp.HandlerFor(applicationRegistry, promhttp.HandlerOpts{}),
		}
	}

	return m
}

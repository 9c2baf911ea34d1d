package metrics

import (
	"context"
	"net/http"

	"go.uber.org/fx"

	"github.com/aalemi-dev/msgrpc-lab/logger"
	"github.com/aalemi-dev/msgrpc-lab/observability"
)

// FXModule defines the Fx module for the metrics package.
//
// The module provides:
//  1. *Metrics (concrete type) and the MetricsCollector interface
//  2. *RPCObserver and the observability.Observer interface, so the rpc,
//     kafkarpc, and instrument modules pick up Prometheus recording
//     automatically
//  3. Lifecycle management for both metrics HTTP servers
//
// Usage:
//
//	app := fx.New(
//	    metrics.FXModule,
//	    fx.Provide(func() metrics.Config {
//	        return metrics.Config{ServiceName: "orders-api"}
//	    }),
//	)
//
// Dependencies required by this module:
// - A metrics.Config instance must be available in the dependency injection container
// - A logger.LoggerClient instance is optional but recommended for startup/shutdown logs
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics, // Provides *Metrics
		fx.Annotate(
			func(m *Metrics) MetricsCollector { return m },
			fx.As(new(MetricsCollector)),
		),
		NewRPCObserver, // Provides *RPCObserver
		fx.Annotate(
			func(o *RPCObserver) observability.Observer { return o },
			fx.As(new(observability.Observer)),
		),
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// MetricsLifecycleParams groups the dependencies for lifecycle registration.
type MetricsLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Metrics   *Metrics
	Logger    *logger.LoggerClient `optional:"true"`
}

// RegisterMetricsLifecycle starts both metrics HTTP servers on application
// start and shuts them down gracefully on stop.
//
// This function is automatically invoked by the FXModule and does not need
// to be called directly in application code.
func RegisterMetricsLifecycle(params MetricsLifecycleParams) {
	m := params.Metrics
	log := params.Logger

	logInfo := func(msg string, fields map[string]interface{}) {
		if log != nil {
			log.Info(msg, nil, fields)
		}
	}
	logError := func(msg string, err error) {
		if log != nil {
			log.Error(msg, err)
		}
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if m.SystemServer != nil {
				go func() {
					logInfo("Starting system metrics server", map[string]interface{}{
						"address": m.SystemServer.Addr,
					})
					if err := m.SystemServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						logError("Error starting system metrics server", err)
					}
				}()
			}

			if m.ApplicationServer != nil {
				go func() {
					logInfo("Starting application metrics server", map[string]interface{}{
						"address": m.ApplicationServer.Addr,
					})
					if err := m.ApplicationServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						logError("Error starting application metrics server", err)
					}
				}()
			}

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if m.SystemServer != nil {
				logInfo("Shutting down system metrics server", nil)
				if err := m.SystemServer.Shutdown(ctx); err != nil {
					logError("Error shutting down system metrics server", err)
				}
			}

			if m.ApplicationServer != nil {
				logInfo("Shutting down application metrics server", nil)
				if err := m.ApplicationServer.Shutdown(ctx); err != nil {
					logError("Error shutting down application metrics server", err)
				}
			}

			return nil
		},
	})
}

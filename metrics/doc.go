// Package metrics exposes Prometheus metrics for msgrpc applications.
//
// Two separate registries and HTTP servers are maintained: one for system
// metrics (Go runtime, process, build info) and one for application metrics
// created through the MetricsCollector factory methods. Both registries wrap
// every metric with a constant "service" label.
//
// The package also provides RPCObserver, an observability.Observer that turns
// the operation hooks of the rpc, kafkarpc, and instrument packages into
// Prometheus counters and histograms:
//
//	m := metrics.NewMetrics(metrics.Config{ServiceName: "orders-api"})
//	observer := metrics.NewRPCObserver(m)
//
//	client, _ := rpc.NewClient(transport)
//	client = client.WithObserver(observer)
//
// Exposed series:
//
//	msgrpc_operations_total{component, operation, status}
//	msgrpc_operation_duration_seconds{component, operation}
//	msgrpc_payload_bytes{component, operation}
package metrics

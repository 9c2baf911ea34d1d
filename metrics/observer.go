package metrics

import (
	"github.com/aalemi-dev/msgrpc-lab/observability"
)

// RPCObserver translates operation hooks from the rpc, kafkarpc, and
// instrument packages into Prometheus series. Attach it with the packages'
// WithObserver builders or inject it as the observability.Observer in an fx
// application.
//
// RPCObserver implements the observability.Observer interface.
type RPCObserver struct {
	operations Counter
	duration   Histogram
	payload    Histogram
}

// durationBuckets cover the expected RPC latency range, from sub-millisecond
// in-process dispatch to multi-second broker round trips.
var durationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// payloadBuckets cover typical serialized envelope sizes in bytes.
var payloadBuckets = []float64{64, 256, 1024, 4096, 16384, 65536, 262144, 1048576}

// NewRPCObserver creates the RPC metric set on m's application registry.
// Create at most one per Metrics instance; the underlying series names are
// fixed and double registration panics.
func NewRPCObserver(m *Metrics) *RPCObserver {
	return &RPCObserver{
		operations: m.CreateCounter(
			"msgrpc_operations_total",
			"Total RPC operations by component, operation, and outcome",
			[]string{"component", "operation", "status"},
		),
		duration: m.CreateHistogram(
			"msgrpc_operation_duration_seconds",
			"RPC operation duration in seconds",
			[]string{"component", "operation"},
			durationBuckets,
		),
		payload: m.CreateHistogram(
			"msgrpc_payload_bytes",
			"Serialized payload size in bytes",
			[]string{"component", "operation"},
			payloadBuckets,
		),
	}
}

// ObserveOperation records one operation outcome.
func (o *RPCObserver) ObserveOperation(ctx observability.OperationContext) {
	status := "ok"
	if ctx.Error != nil {
		status = "error"
	}

	o.operations.WithLabelValues(ctx.Component, ctx.Operation, status).Inc()
	o.duration.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())

	if ctx.Size > 0 {
		o.payload.WithLabelValues(ctx.Component, ctx.Operation).Observe(float64(ctx.Size))
	}
}

// Package observability provides a unified interface for observing operations
// across all msgrpc-lab packages.
//
// # Overview
//
// The observability package defines a single Observer interface that the rpc,
// kafkarpc, and instrument packages use to emit operation events. This allows
// applications to implement metrics, tracing, and logging in a consistent way
// across the whole RPC stack.
//
// # Design Philosophy
//
// 1. **Optional**: packages work perfectly without an observer
// 2. **Unified**: same interface for the framework seam, the transport, and the instrumentation layer
// 3. **Flexible**: an Observer can implement metrics, tracing, logging, or all three
// 4. **Generic**: OperationContext works across the different layers
// 5. **Non-intrusive**: minimal code in the observed packages
//
// # Usage in msgrpc-lab Packages
//
// Packages accept an optional Observer via a builder method:
//
//	transport, err := kafkarpc.NewTransport(cfg)
//	if err != nil {
//	    return err
//	}
//	transport = transport.WithObserver(myObserver)
//
// The observed package calls the observer when an operation completes:
//
//	func (t *KafkaTransport) Cast(ctx context.Context, req *rpc.Request) error {
//	    start := time.Now()
//	    err := t.produce(ctx, req)
//
//	    t.observeOperation("cast", req.Target.Topic, req.Method, time.Since(start), err, 0)
//	    return err
//	}
//
// # Implementing an Observer
//
// The metrics package ships a prometheus-backed implementation (RPCObserver);
// custom implementations only need the single ObserveOperation method.
package observability

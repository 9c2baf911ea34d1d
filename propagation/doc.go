// Package propagation serializes trace context into and out of RPC call
// metadata.
//
// # Overview
//
// The package is the codec between an in-process trace context (trace id,
// parent span id, sampling flag, baggage) and the flat string metadata that
// travels with every RPC message. Trace fields live under a fixed set of
// reserved keys distinguished from application metadata by the KeyPrefix
// constant, so instrumented and uninstrumented peers can share the same
// metadata map without collisions.
//
// The reserved key set is the on-the-wire compatibility surface between the
// client-side and server-side interceptors. It is stable across versions:
// an older instrumented client can talk to a newer instrumented server.
//
// # Behavior
//
//	carrier := rpc.Metadata{}
//	propagation.Inject(ctx, carrier)   // writes __otel.traceparent etc.
//	ctx2 := propagation.Extract(ctx0, carrier)
//
// Extract never fails: a carrier without the reserved keys, or with malformed
// values under them, yields the parent context unchanged, which downstream
// span creation treats as "start a new root". Propagation problems are never
// allowed to break the RPC itself.
//
// The package is pure and stateless; it wraps the W3C TraceContext and
// Baggage propagators from OpenTelemetry with a key-prefixing carrier.
package propagation

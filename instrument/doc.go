// Package instrument attaches OpenTelemetry spans to msgrpc traffic.
//
// # Overview
//
// The package wraps the two extension seams of the rpc package, the client
// call/cast entry point and the server dispatch entry point, with
// interceptors that create a span per invocation, propagate trace context
// inside the request metadata, and record the outcome. Application code using
// the rpc package does not change at all; enabling and disabling
// instrumentation is a process-wide switch:
//
//	if err := instrument.Instrument(); err != nil {
//	    log.Fatal(err)
//	}
//	defer func() { _ = instrument.Uninstrument() }()
//
// Instrument is idempotent: calling it while already instrumented is a no-op,
// never a double wrap. Uninstrument restores the exact entry points captured
// at activation; if a third party has replaced them in the meantime it fails
// with ErrEntryPointMismatch instead of silently installing the wrong
// functions.
//
// # What gets recorded
//
// Each outbound call or cast produces a client-kind span named
// "msgrpc.rpc.<kind>.<method>"; each dispatched request produces a
// server-kind span named "msgrpc.rpc.server.<method>" parented on the trace
// context extracted from the request metadata, or a new root when none
// arrived. Every span carries at minimum:
//
//	rpc.system           "msgrpc"
//	rpc.method           the invoked method name
//	rpc.target           the target topic
//	messaging.operation  "call" or "cast"
//
// Server spans are created unconditionally, regardless of the propagated
// sampling decision; honoring sampling is left to the tracing SDK so that
// server-side visibility into unsampled traces is not silently lost.
//
// # Transparency guarantees
//
// The interceptors never change what the application observes: results and
// errors pass through untouched, the same error value the wrapped operation
// produced reaches the caller, and no retries, timeouts, or goroutines are
// introduced. Failures inside the tracing backend itself, including panics
// from span creation or export misconfiguration, are caught, logged, and
// swallowed. A broken tracing setup can never break an RPC.
package instrument

// Package rpc is the message-oriented RPC framework seam that msgrpc-lab
// instruments.
//
// # Overview
//
// The package defines the shapes that flow through an RPC invocation (Target,
// Request, Response, Metadata) and the two primitives built on them:
//
//   - Client: outbound "call" (synchronous, expects a reply) and "cast"
//     (fire-and-forget, no reply) against a Target.
//   - Server: dispatch of an incoming Request to a method resolved by name on
//     one of its registered endpoints.
//
// Message delivery itself is behind the Transport interface. The package ships
// an in-memory transport for tests and single-process use; the kafkarpc
// package provides a broker-backed one.
//
// # The extension seam
//
// Every client invocation and every server dispatch flows through a
// process-wide, replaceable entry point:
//
//	rpc.SetClientEntryPoint(wrap(rpc.ClientEntryPoint()))
//	rpc.SetDispatchEntryPoint(wrap(rpc.DispatchEntryPoint()))
//
// Entry points are read at invocation time, not at construction time, so
// swapping them affects clients and servers that already exist as well as ones
// created later. A wrapper receives exactly the arguments the original
// receives and must return exactly what the original returns; the seam exists
// so layers like the instrument package can observe invocations without
// changing their semantics. Access to the slots is guarded by a single
// package-level lock.
//
// # Endpoint dispatch
//
// Endpoints are plain values. A request's method name is resolved dynamically
// against the registered endpoints: the wire name "hello" matches the exported
// method Hello with the signature
//
//	func (e *Endpoint) Hello(ctx context.Context, args rpc.Args) (interface{}, error)
//
// A method the endpoints do not implement yields ErrNoSuchMethod from dispatch;
// the dispatch entry point still sees the invocation, so instrumentation can
// record the failure.
//
// # Example
//
//	transport := rpc.NewInMemTransport()
//	server := rpc.NewServer(rpc.Target{Topic: "test_topic"}, &Greeter{})
//	transport.RegisterServer(server)
//
//	client := rpc.NewClient(transport)
//	result, err := client.Call(ctx, rpc.Target{Topic: "test_topic"}, "hello", rpc.Args{"name": "world"})
package rpc

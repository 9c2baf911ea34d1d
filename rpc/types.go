package rpc

import "context"

// Kind is the invocation kind of a request.
type Kind string

const (
	// KindCall is a synchronous invocation that expects a reply.
	KindCall Kind = "call"

	// KindCast is a fire-and-forget invocation; no reply ever comes back,
	// so only local enqueue errors can surface to the caller.
	KindCast Kind = "cast"
)

// Target is the addressable destination of an invocation.
type Target struct {
	// Topic is the exchange/topic-like identifier messages are routed by.
	Topic string

	// Server optionally narrows the target to a specific server instance
	// within the topic. Empty means any server.
	Server string
}

// Metadata is the flat string key-value metadata that travels with a request.
// Application keys and reserved trace-propagation keys (see the propagation
// package) share this map; the reserved key prefix keeps them apart.
type Metadata map[string]string

// Args holds the named arguments of an invocation.
type Args map[string]interface{}

// Request describes one RPC invocation on the wire.
type Request struct {
	// Target is where the request is routed.
	Target Target

	// Method is the endpoint method name, as known on the wire ("hello").
	Method string

	// Kind distinguishes call from cast.
	Kind Kind

	// Args are the invocation arguments.
	Args Args

	// Metadata carries application metadata plus, when instrumentation is
	// active, the propagated trace context.
	Metadata Metadata
}

// Response carries the result of a completed call. Casts produce no response.
type Response struct {
	// Result is the value returned by the endpoint method.
	Result interface{}
}

// Transport moves requests between clients and servers. Implementations own
// connection management, payload serialization, and delivery semantics; the
// rpc package treats them as opaque.
//
// The in-memory transport in this package and the Kafka transport in kafkarpc
// implement this interface.
type Transport interface {
	// Call delivers the request and blocks until a reply or an error.
	// Remote endpoint errors are returned as errors here.
	Call(ctx context.Context, req *Request) (*Response, error)

	// Cast delivers the request without waiting for processing. Only local
	// enqueue/delivery errors are reported.
	Cast(ctx context.Context, req *Request) error
}

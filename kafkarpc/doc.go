// Package kafkarpc carries msgrpc traffic over Apache Kafka topics.
//
// # Overview
//
// The package provides a Transport implementation for the rpc package in
// which every target topic is a Kafka topic. Requests are produced to the
// target's topic; servers consume them, dispatch through the rpc package, and
// for calls produce a correlated reply to the caller's reply topic. Casts are
// fire-and-forget: the producer gets an acknowledgment from the broker and
// nothing travels back.
//
// Client side:
//
//	transport, err := kafkarpc.NewTransport(kafkarpc.Config{
//	    Brokers:    []string{"localhost:9092"},
//	    ReplyTopic: "orders-api.replies",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer transport.GracefulShutdown()
//
//	client, err := rpc.NewClient(transport)
//
// Server side:
//
//	server := rpc.NewServer(rpc.Target{Topic: "orders"}, &orderEndpoint{})
//	wg := &sync.WaitGroup{}
//	transport.Serve(ctx, wg, server)
//
// # Wire format
//
// The request body is a serialized envelope holding the correlation id, the
// method name, the invocation kind, the arguments, and the reply topic.
// Request metadata, including propagated trace context, travels in Kafka
// message headers so that brokers and tooling can see it without decoding
// the body. The body serializer is pluggable; JSON is the default.
//
// # Error identity
//
// A remote endpoint error crosses the wire as its message text and surfaces
// on the caller as a *RemoteError. Sentinel comparisons with errors.Is
// against the caller's own error values do not hold across a Kafka hop; use
// the in-memory transport when error identity matters.
package kafkarpc

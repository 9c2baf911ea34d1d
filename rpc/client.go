package rpc

import (
	"context"
	"time"

	"github.com/aalemi-dev/msgrpc-lab/observability"
)

// Logger is the subset of the logger package's interface consumed here.
// Declaring it locally keeps the rpc package free of a hard dependency on a
// concrete logger implementation.
type Logger interface {
	// InfoWithContext logs an informational message with trace context.
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// WarnWithContext logs a warning message with trace context.
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// ErrorWithContext logs an error message with trace context.
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Client issues calls and casts against targets over a Transport.
//
// Every invocation flows through the process-wide client entry point, read at
// call time, which is how the instrument package attaches spans without the
// client knowing about it.
type Client struct {
	transport Transport
	observer  observability.Observer
	logger    Logger
}

// NewClient creates a client bound to the given transport.
func NewClient(transport Transport) (*Client, error) {
	if transport == nil {
		return nil, ErrNilTransport
	}
	return &Client{transport: transport}, nil
}

// WithObserver attaches an observer for call/cast operation tracking.
// Returns the client for chaining.
func (c *Client) WithObserver(observer observability.Observer) *Client {
	c.observer = observer
	return c
}

// WithLogger attaches a logger for invocation-level logging.
// Returns the client for chaining.
func (c *Client) WithLogger(logger Logger) *Client {
	c.logger = logger
	return c
}

// Call invokes method on the target and waits for the reply. The returned
// value is whatever the remote endpoint method returned; a remote endpoint
// error comes back as the returned error, untouched by any layer in between.
func (c *Client) Call(ctx context.Context, target Target, method string, args Args) (interface{}, error) {
	req := &Request{
		Target:   target,
		Method:   method,
		Kind:     KindCall,
		Args:     args,
		Metadata: Metadata{},
	}

	start := time.Now()
	resp, err := ClientEntryPoint()(ctx, c.transport, req)
	c.observeOperation(string(KindCall), target.Topic, method, time.Since(start), err)

	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	return resp.Result, nil
}

// Cast invokes method on the target without waiting for processing. Only
// local enqueue/delivery errors are reported; the remote outcome is invisible
// to the caller.
func (c *Client) Cast(ctx context.Context, target Target, method string, args Args) error {
	req := &Request{
		Target:   target,
		Method:   method,
		Kind:     KindCast,
		Args:     args,
		Metadata: Metadata{},
	}

	start := time.Now()
	_, err := ClientEntryPoint()(ctx, c.transport, req)
	c.observeOperation(string(KindCast), target.Topic, method, time.Since(start), err)

	return err
}

// observeOperation safely calls the observer if it's not nil.
func (c *Client) observeOperation(operation, topic, method string, duration time.Duration, err error) {
	if c.observer != nil {
		c.observer.ObserveOperation(observability.OperationContext{
			Component:   "rpc",
			Operation:   operation,
			Resource:    topic,
			SubResource: method,
			Duration:    duration,
			Error:       err,
		})
	}
}

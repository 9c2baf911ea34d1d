package instrument

import (
	"context"
	"fmt"

	"github.com/aalemi-dev/msgrpc-lab/propagation"
	"github.com/aalemi-dev/msgrpc-lab/rpc"
	"github.com/aalemi-dev/msgrpc-lab/tracer"
)

// wrapClient builds the client interceptor around the saved entry point.
// The interceptor starts a client-kind span, injects its context into the
// request metadata, delegates to base, records the outcome, and ends the
// span. The response and error from base pass through untouched.
func (i *Instrumentor) wrapClient(base rpc.CallFunc) rpc.CallFunc {
	return func(ctx context.Context, transport rpc.Transport, req *rpc.Request) (resp *rpc.Response, err error) {
		spanCtx, span := i.safeStartSpan(ctx, clientSpanName(req),
			tracer.WithKind(tracer.KindClient),
			tracer.WithAttributes(requestAttributes(req)))

		if req.Metadata == nil {
			req.Metadata = rpc.Metadata{}
		}
		i.safeInject(spanCtx, req.Metadata)

		finished := false
		defer func() {
			// Unwinding from a panic below base; close the span, let the
			// panic keep travelling.
			if !finished {
				i.safeSetStatus(span, tracer.StatusError, "panic during rpc invocation")
				i.safeEnd(span)
			}
		}()

		resp, err = base(spanCtx, transport, req)

		if err != nil {
			i.safeRecordError(span, err)
		} else {
			i.safeSetStatus(span, tracer.StatusOK, "")
		}
		finished = true
		i.safeEnd(span)

		return resp, err
	}
}

// wrapDispatch builds the server interceptor around the saved entry point.
// The interceptor extracts the propagated trace context from the request
// metadata, starts a server-kind span parented on it (a new root when none
// arrived), and delegates to base. Dispatch-resolution failures happen inside
// base and are therefore covered by the span.
func (i *Instrumentor) wrapDispatch(base rpc.DispatchFunc) rpc.DispatchFunc {
	return func(ctx context.Context, dispatcher *rpc.Dispatcher, req *rpc.Request) (resp *rpc.Response, err error) {
		parent := i.safeExtract(ctx, req.Metadata)

		spanCtx, span := i.safeStartSpan(parent, serverSpanName(req),
			tracer.WithKind(tracer.KindServer),
			tracer.WithAttributes(requestAttributes(req)))

		finished := false
		defer func() {
			if !finished {
				i.safeSetStatus(span, tracer.StatusError, "panic during rpc dispatch")
				i.safeEnd(span)
			}
		}()

		resp, err = base(spanCtx, dispatcher, req)

		if err != nil {
			i.safeRecordError(span, err)
		} else {
			i.safeSetStatus(span, tracer.StatusOK, "")
		}
		finished = true
		i.safeEnd(span)

		return resp, err
	}
}

// The safe* helpers fence every touch of the tracing backend with a recover,
// so a misbehaving TracerProvider or propagator can degrade telemetry but
// never an RPC.

func (i *Instrumentor) safeStartSpan(ctx context.Context, name string, opts ...tracer.StartOption) (spanCtx context.Context, span tracer.Span) {
	defer func() {
		if r := recover(); r != nil {
			spanCtx, span = ctx, nil
			i.logTracingFailure(ctx, "span start", r)
		}
	}()
	spanCtx, span = i.tracer.StartSpan(ctx, name, opts...)
	return spanCtx, span
}

func (i *Instrumentor) safeEnd(span tracer.Span) {
	if span == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			i.logTracingFailure(context.Background(), "span end", r)
		}
	}()
	span.End()
}

func (i *Instrumentor) safeRecordError(span tracer.Span, err error) {
	if span == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			i.logTracingFailure(context.Background(), "record error", r)
		}
	}()
	span.RecordError(err)
}

func (i *Instrumentor) safeSetStatus(span tracer.Span, status tracer.Status, description string) {
	if span == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			i.logTracingFailure(context.Background(), "set status", r)
		}
	}()
	span.SetStatus(status, description)
}

func (i *Instrumentor) safeInject(ctx context.Context, metadata rpc.Metadata) {
	defer func() {
		if r := recover(); r != nil {
			i.logTracingFailure(ctx, "context inject", r)
		}
	}()
	propagation.Inject(ctx, metadata)
}

func (i *Instrumentor) safeExtract(ctx context.Context, metadata rpc.Metadata) (out context.Context) {
	out = ctx
	defer func() {
		if r := recover(); r != nil {
			out = ctx
			i.logTracingFailure(ctx, "context extract", r)
		}
	}()
	out = propagation.Extract(ctx, metadata)
	return out
}

// logTracingFailure reports a swallowed tracing-backend failure.
func (i *Instrumentor) logTracingFailure(ctx context.Context, stage string, recovered interface{}) {
	if i.logger == nil {
		return
	}
	i.logger.ErrorWithContext(ctx, "tracing backend failure suppressed",
		fmt.Errorf("panic during %s: %v", stage, recovered),
		map[string]interface{}{"stage": stage})
}

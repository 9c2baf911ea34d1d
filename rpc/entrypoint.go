package rpc

import (
	"context"
	"sync"
)

// CallFunc is the shape of the client-side entry point. Every Call and Cast
// issued by any Client in the process flows through the currently installed
// CallFunc. The transport is the one the invoking client was built with.
type CallFunc func(ctx context.Context, transport Transport, req *Request) (*Response, error)

// DispatchFunc is the shape of the server-side entry point. Every dispatch of
// an incoming request by any Server in the process flows through the currently
// installed DispatchFunc.
type DispatchFunc func(ctx context.Context, dispatcher *Dispatcher, req *Request) (*Response, error)

// entryMu guards both entry-point slots. A single lock keeps swaps of the two
// slots from interleaving with reads.
var entryMu sync.RWMutex

var (
	clientEntryPoint   CallFunc     = DefaultClientEntryPoint
	dispatchEntryPoint DispatchFunc = DefaultDispatchEntryPoint
)

// DefaultClientEntryPoint is the uninstrumented client entry point: it hands
// the request straight to the transport.
func DefaultClientEntryPoint(ctx context.Context, transport Transport, req *Request) (*Response, error) {
	if req.Kind == KindCast {
		return nil, transport.Cast(ctx, req)
	}
	return transport.Call(ctx, req)
}

// DefaultDispatchEntryPoint is the uninstrumented dispatch entry point: it
// invokes the dispatcher directly.
func DefaultDispatchEntryPoint(ctx context.Context, dispatcher *Dispatcher, req *Request) (*Response, error) {
	return dispatcher.Invoke(ctx, req)
}

// ClientEntryPoint returns the currently installed client entry point.
// Clients read the slot on every invocation, so a swap takes effect for
// existing clients immediately.
func ClientEntryPoint() CallFunc {
	entryMu.RLock()
	defer entryMu.RUnlock()
	return clientEntryPoint
}

// SetClientEntryPoint installs f as the process-wide client entry point.
// Passing nil restores the default.
func SetClientEntryPoint(f CallFunc) {
	entryMu.Lock()
	defer entryMu.Unlock()
	if f == nil {
		f = DefaultClientEntryPoint
	}
	clientEntryPoint = f
}

// DispatchEntryPoint returns the currently installed dispatch entry point.
func DispatchEntryPoint() DispatchFunc {
	entryMu.RLock()
	defer entryMu.RUnlock()
	return dispatchEntryPoint
}

// SetDispatchEntryPoint installs f as the process-wide dispatch entry point.
// Passing nil restores the default.
func SetDispatchEntryPoint(f DispatchFunc) {
	entryMu.Lock()
	defer entryMu.Unlock()
	if f == nil {
		f = DefaultDispatchEntryPoint
	}
	dispatchEntryPoint = f
}

package rpc

import (
	"context"
	"fmt"
	"reflect"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/aalemi-dev/msgrpc-lab/observability"
)

// Dispatcher resolves a request's method name against a set of registered
// endpoints and invokes the matched method. The endpoints are plain values;
// methods are looked up dynamically by name, so the dispatcher never knows
// endpoint types statically.
type Dispatcher struct {
	endpoints []interface{}
}

// NewDispatcher creates a dispatcher over the given endpoints. Endpoints are
// consulted in registration order; the first one exposing the method wins.
func NewDispatcher(endpoints ...interface{}) *Dispatcher {
	return &Dispatcher{endpoints: endpoints}
}

// argsType and method return shapes checked during resolution.
var (
	ctxType   = reflect.TypeOf((*context.Context)(nil)).Elem()
	argsType  = reflect.TypeOf(Args(nil))
	errorType = reflect.TypeOf((*error)(nil)).Elem()
)

// exportedName maps a wire method name to the Go exported method name:
// "hello" resolves to "Hello". Names already starting with an upper-case rune
// are used as-is.
func exportedName(method string) string {
	r, size := utf8.DecodeRuneInString(method)
	if r == utf8.RuneError {
		return method
	}
	return string(unicode.ToUpper(r)) + method[size:]
}

// resolve finds the method on one of the endpoints, validating its signature.
func (d *Dispatcher) resolve(method string) (reflect.Value, error) {
	name := exportedName(method)
	for _, ep := range d.endpoints {
		m := reflect.ValueOf(ep).MethodByName(name)
		if !m.IsValid() {
			continue
		}

		mt := m.Type()
		if mt.NumIn() != 2 || mt.In(0) != ctxType || mt.In(1) != argsType ||
			mt.NumOut() != 2 || mt.Out(1) != errorType {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrInvalidMethodSignature, method)
		}
		return m, nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %s", ErrNoSuchMethod, method)
}

// Invoke resolves and calls the request's method. Endpoint errors come back
// exactly as the endpoint returned them.
func (d *Dispatcher) Invoke(ctx context.Context, req *Request) (*Response, error) {
	m, err := d.resolve(req.Method)
	if err != nil {
		return nil, err
	}

	args := req.Args
	if args == nil {
		args = Args{}
	}

	out := m.Call([]reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(args)})
	if errVal := out[1].Interface(); errVal != nil {
		return nil, errVal.(error)
	}
	return &Response{Result: out[0].Interface()}, nil
}

// Server dispatches incoming requests for one target to its endpoints.
//
// Dispatch flows through the process-wide dispatch entry point, read at
// dispatch time, which is how the instrument package attaches server spans
// without the server knowing about it.
type Server struct {
	target     Target
	dispatcher *Dispatcher
	observer   observability.Observer
	logger     Logger
}

// NewServer creates a server for the target over the given endpoints.
func NewServer(target Target, endpoints ...interface{}) *Server {
	return &Server{
		target:     target,
		dispatcher: NewDispatcher(endpoints...),
	}
}

// WithObserver attaches an observer for dispatch operation tracking.
// Returns the server for chaining.
func (s *Server) WithObserver(observer observability.Observer) *Server {
	s.observer = observer
	return s
}

// WithLogger attaches a logger for dispatch-level logging.
// Returns the server for chaining.
func (s *Server) WithLogger(logger Logger) *Server {
	s.logger = logger
	return s
}

// Target returns the target this server answers for.
func (s *Server) Target() Target {
	return s.target
}

// Dispatch hands an incoming request to the matched endpoint method through
// the current dispatch entry point. Transports call this for every delivered
// message; for calls, the returned response travels back over the wire.
func (s *Server) Dispatch(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()
	resp, err := DispatchEntryPoint()(ctx, s.dispatcher, req)
	s.observeOperation(req, time.Since(start), err)

	if err != nil && s.logger != nil {
		s.logger.WarnWithContext(ctx, "dispatch failed", err, map[string]interface{}{
			"rpc.method": req.Method,
			"rpc.target": req.Target.Topic,
		})
	}
	return resp, err
}

// observeOperation safely calls the observer if it's not nil.
func (s *Server) observeOperation(req *Request, duration time.Duration, err error) {
	if s.observer != nil {
		s.observer.ObserveOperation(observability.OperationContext{
			Component:   "rpc",
			Operation:   "dispatch",
			Resource:    req.Target.Topic,
			SubResource: req.Method,
			Duration:    duration,
			Error:       err,
			Metadata: map[string]interface{}{
				"kind": string(req.Kind),
			},
		})
	}
}

package rpc

import (
	"context"
	"fmt"
	"sync"
)

// InMemTransport delivers requests directly to servers registered in the same
// process. Useful for tests and single-process deployments; delivery is
// synchronous, there is no wire.
//
// InMemTransport implements the Transport interface.
type InMemTransport struct {
	mu      sync.RWMutex
	servers map[string]*Server
}

// NewInMemTransport creates an empty in-memory transport.
func NewInMemTransport() *InMemTransport {
	return &InMemTransport{servers: make(map[string]*Server)}
}

// RegisterServer makes the server reachable under its target topic.
// Registering a second server for the same topic replaces the first.
func (t *InMemTransport) RegisterServer(s *Server) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.servers[s.Target().Topic] = s
}

func (t *InMemTransport) lookup(topic string) (*Server, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.servers[topic]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchTarget, topic)
	}
	return s, nil
}

// Call delivers the request to the target's server and returns the dispatch
// result. Endpoint errors come back as errors, exactly as dispatch produced
// them.
func (t *InMemTransport) Call(ctx context.Context, req *Request) (*Response, error) {
	s, err := t.lookup(req.Target.Topic)
	if err != nil {
		return nil, err
	}
	return s.Dispatch(ctx, req)
}

// Cast delivers the request to the target's server and discards the outcome.
// Only a missing target is a local delivery error; endpoint errors cannot
// travel back on a cast.
func (t *InMemTransport) Cast(ctx context.Context, req *Request) error {
	s, err := t.lookup(req.Target.Topic)
	if err != nil {
		return err
	}
	_, _ = s.Dispatch(ctx, req)
	return nil
}

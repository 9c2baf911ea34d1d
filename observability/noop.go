package observability

// NoOpObserver is an Observer that discards every operation event.
// The rpc, kafkarpc, and instrument packages treat a nil observer as
// "no observability"; NoOpObserver exists for callers that prefer to
// pass an explicit value, for example as an fx default or a test stand-in.
type NoOpObserver struct{}

// ObserveOperation discards the event.
func (n *NoOpObserver) ObserveOperation(ctx OperationContext) {
}

// NewNoOpObserver creates a new NoOpObserver.
func NewNoOpObserver() Observer {
	return &NoOpObserver{}
}

package observability

import "time"

// Observer is a unified interface for observability across all msgrpc-lab packages.
// It allows external code to observe operations happening in the RPC stack
// (client calls, server dispatch, transport produce/consume) without coupling
// those packages to specific observability implementations (metrics, tracing, logging).
//
// This interface is optional - msgrpc-lab packages work perfectly fine without an observer.
type Observer interface {
	// ObserveOperation is called when an RPC-stack operation completes.
	// It provides all context about the operation in a structured format.
	ObserveOperation(ctx OperationContext)
}

// OperationContext contains all information about an RPC-stack operation.
// This struct is designed to be generic enough to work across all msgrpc-lab
// packages while providing enough detail for comprehensive observability.
type OperationContext struct {
	// Component identifies which msgrpc-lab package performed the operation.
	// Examples: "rpc", "kafkarpc", "instrument"
	Component string

	// Operation describes what operation was performed.
	// Examples:
	//   Client:    "call", "cast"
	//   Server:    "dispatch"
	//   Transport: "produce", "consume", "reply"
	Operation string

	// Resource identifies the primary resource being operated on.
	// For RPC operations this is the target topic ("compute", "test_topic").
	Resource string

	// SubResource provides additional resource context (optional).
	// For RPC operations this is the method name ("hello", "rebuild_index").
	SubResource string

	// Duration is how long the operation took from start to completion.
	Duration time.Duration

	// Error is the error returned by the operation, if any.
	// nil indicates successful operation.
	Error error

	// Size represents the size of data involved in the operation (optional).
	// For transport operations this is the encoded message size in bytes.
	Size int64

	// Metadata provides additional operation-specific information (optional).
	// This map can contain any extra context that doesn't fit in the standard fields.
	// Examples: {"kind": "call", "partition": 3, "correlation_id": "..."}
	Metadata map[string]interface{}
}

package instrument

import "github.com/aalemi-dev/msgrpc-lab/rpc"

// SystemName identifies the RPC system on every span.
const SystemName = "msgrpc"

// Semantic attribute keys recorded on client and server spans.
const (
	AttrRPCSystem = "rpc.system"
	AttrRPCMethod = "rpc.method"
	AttrRPCTarget = "rpc.target"
	AttrOperation = "messaging.operation"
)

// spanNamePrefix is shared by all span names the package produces.
const spanNamePrefix = SystemName + ".rpc."

// clientSpanName builds the span name for an outbound invocation:
// "msgrpc.rpc.call.hello" or "msgrpc.rpc.cast.notify".
func clientSpanName(req *rpc.Request) string {
	return spanNamePrefix + string(req.Kind) + "." + req.Method
}

// serverSpanName builds the span name for a dispatched invocation:
// "msgrpc.rpc.server.hello".
func serverSpanName(req *rpc.Request) string {
	return spanNamePrefix + "server." + req.Method
}

// requestAttributes builds the attribute set shared by client and server
// spans for a request.
func requestAttributes(req *rpc.Request) map[string]interface{} {
	return map[string]interface{}{
		AttrRPCSystem: SystemName,
		AttrRPCMethod: req.Method,
		AttrRPCTarget: req.Target.Topic,
		AttrOperation: string(req.Kind),
	}
}

package kafkarpc

import (
	"github.com/segmentio/kafka-go"

	"github.com/aalemi-dev/msgrpc-lab/rpc"
)

// requestEnvelope is the wire body for a request message. Request metadata,
// including trace context, travels in Kafka headers rather than the body.
type requestEnvelope struct {
	// ID correlates a call with its reply. Empty for casts.
	ID string `json:"id,omitempty"`

	// Method is the wire method name to dispatch.
	Method string `json:"method"`

	// Kind is "call" or "cast".
	Kind string `json:"kind"`

	// Args carries the named invocation arguments.
	Args rpc.Args `json:"args,omitempty"`

	// ReplyTo names the topic the caller consumes the reply from.
	// Empty for casts.
	ReplyTo string `json:"reply_to,omitempty"`
}

// replyEnvelope is the wire body for a call reply.
type replyEnvelope struct {
	// ID matches the request envelope's ID.
	ID string `json:"id"`

	// Result is the endpoint's return value on success.
	Result interface{} `json:"result,omitempty"`

	// Error is the endpoint error's message text; empty on success.
	Error string `json:"error,omitempty"`
}

// metadataToHeaders converts request metadata to Kafka message headers.
func metadataToHeaders(metadata rpc.Metadata) []kafka.Header {
	if len(metadata) == 0 {
		return nil
	}
	headers := make([]kafka.Header, 0, len(metadata))
	for k, v := range metadata {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return headers
}

// headersToMetadata converts Kafka message headers back to request metadata.
func headersToMetadata(headers []kafka.Header) rpc.Metadata {
	metadata := make(rpc.Metadata, len(headers))
	for _, h := range headers {
		metadata[h.Key] = string(h.Value)
	}
	return metadata
}

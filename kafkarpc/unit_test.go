package kafkarpc

import (
	"context"
	"fmt"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalemi-dev/msgrpc-lab/rpc"
)

func TestNewTransport_AppliesDefaults(t *testing.T) {
	t.Parallel()

	transport, err := NewTransport(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	defer transport.GracefulShutdown()

	assert.Equal(t, DefaultCallTimeout, transport.cfg.CallTimeout)
	assert.Equal(t, DefaultWriteTimeout, transport.cfg.WriteTimeout)
	assert.Equal(t, DefaultMaxWait, transport.cfg.MaxWait)
	assert.Equal(t, DefaultMaxAttempts, transport.cfg.MaxAttempts)
	assert.Equal(t, DefaultRequiredAcks, transport.cfg.RequiredAcks)
	assert.IsType(t, &JSONSerializer{}, transport.serializer)
	assert.IsType(t, &JSONDeserializer{}, transport.deserializer)
}

func TestNewTransport_SerializersFollowDataType(t *testing.T) {
	t.Parallel()

	transport, err := NewTransport(Config{Brokers: []string{"localhost:9092"}, DataType: "gob"})
	require.NoError(t, err)
	defer transport.GracefulShutdown()

	assert.IsType(t, &GobSerializer{}, transport.serializer)
	assert.IsType(t, &GobDeserializer{}, transport.deserializer)
}

func TestNewTransport_RejectsUnknownSASLMechanism(t *testing.T) {
	t.Parallel()

	_, err := NewTransport(Config{
		Brokers: []string{"localhost:9092"},
		SASL:    SASLConfig{Enabled: true, Mechanism: "DIGEST-MD5"},
	})
	assert.Error(t, err)
}

func TestNewTransport_RejectsMissingCACert(t *testing.T) {
	t.Parallel()

	_, err := NewTransport(Config{
		Brokers: []string{"localhost:9092"},
		TLS:     TLSConfig{Enabled: true, CACertPath: "/nonexistent/ca.pem"},
	})
	assert.Error(t, err)
}

func TestCreateSASLMechanism(t *testing.T) {
	t.Parallel()

	mechanism, err := createSASLMechanism(SASLConfig{Mechanism: "PLAIN", Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, plain.Mechanism{Username: "u", Password: "p"}, mechanism)

	for _, name := range []string{"SCRAM-SHA-256", "SCRAM-SHA-512"} {
		m, err := createSASLMechanism(SASLConfig{Mechanism: name, Username: "u", Password: "p"})
		require.NoError(t, err)
		assert.NotNil(t, m)
	}
}

// --- Envelope encoding ---

func TestRequestEnvelope_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	serializer := &JSONSerializer{}
	deserializer := &JSONDeserializer{}

	in := requestEnvelope{
		ID:      "abc-123",
		Method:  "hello",
		Kind:    "call",
		Args:    rpc.Args{"name": "world"},
		ReplyTo: "caller.replies",
	}

	body, err := serializer.Serialize(in)
	require.NoError(t, err)

	var out requestEnvelope
	require.NoError(t, deserializer.Deserialize(body, &out))

	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Method, out.Method)
	assert.Equal(t, in.Kind, out.Kind)
	assert.Equal(t, in.ReplyTo, out.ReplyTo)
	assert.Equal(t, "world", out.Args["name"])
}

func TestReplyEnvelope_ErrorText(t *testing.T) {
	t.Parallel()

	serializer := &JSONSerializer{}

	body, err := serializer.Serialize(replyEnvelope{ID: "abc", Error: "index is rebuilding"})
	require.NoError(t, err)

	var out replyEnvelope
	require.NoError(t, (&JSONDeserializer{}).Deserialize(body, &out))
	assert.Equal(t, "index is rebuilding", out.Error)
	assert.Nil(t, out.Result)
}

func TestMetadataHeaders_RoundTrip(t *testing.T) {
	t.Parallel()

	metadata := rpc.Metadata{
		"__otel.traceparent": "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
		"tenant":             "acme",
	}

	headers := metadataToHeaders(metadata)
	assert.Len(t, headers, 2)

	back := headersToMetadata(headers)
	assert.Equal(t, metadata, back)
}

func TestMetadataHeaders_EmptyMetadata(t *testing.T) {
	t.Parallel()

	assert.Nil(t, metadataToHeaders(nil))
	assert.Nil(t, metadataToHeaders(rpc.Metadata{}))
	assert.Empty(t, headersToMetadata([]kafka.Header{}))
}

// --- Serializers ---

func TestStringSerializer(t *testing.T) {
	t.Parallel()

	s := &StringSerializer{}

	b, err := s.Serialize("plain text")
	require.NoError(t, err)
	assert.Equal(t, []byte("plain text"), b)

	var out string
	require.NoError(t, (&StringDeserializer{}).Deserialize([]byte("back"), &out))
	assert.Equal(t, "back", out)

	assert.Error(t, (&StringDeserializer{}).Deserialize([]byte("x"), &struct{}{}))
}

func TestGobSerializer_RoundTrip(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name  string
		Count int
	}

	b, err := (&GobSerializer{}).Serialize(payload{Name: "n", Count: 3})
	require.NoError(t, err)

	var out payload
	require.NoError(t, (&GobDeserializer{}).Deserialize(b, &out))
	assert.Equal(t, payload{Name: "n", Count: 3}, out)
}

func TestNoOpSerializer_RequiresBytes(t *testing.T) {
	t.Parallel()

	b, err := (&NoOpSerializer{}).Serialize([]byte{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, b)

	_, err = (&NoOpSerializer{}).Serialize("not bytes")
	assert.Error(t, err)

	var out []byte
	require.NoError(t, (&NoOpDeserializer{}).Deserialize([]byte{3}, &out))
	assert.Equal(t, []byte{3}, out)
}

func TestProtobufSerializer_CustomMarshalFunc(t *testing.T) {
	t.Parallel()

	s := &ProtobufSerializer{MarshalFunc: func(data interface{}) ([]byte, error) {
		return []byte("marshaled"), nil
	}}
	b, err := s.Serialize(struct{}{})
	require.NoError(t, err)
	assert.Equal(t, []byte("marshaled"), b)

	_, err = (&ProtobufSerializer{}).Serialize(struct{}{})
	assert.Error(t, err)
}

// --- Error handling ---

func TestTranslateError(t *testing.T) {
	t.Parallel()
	transport := &Transport{}

	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{"connection refused", "dial tcp: connection refused", ErrConnectionFailed},
		{"broker not available", "broker not available", ErrBrokerNotAvailable},
		{"authentication", "SASL authentication failed", ErrAuthenticationFailed},
		{"unknown topic", "unknown topic or partition", ErrTopicNotFound},
		{"record too large", "record too large", ErrMessageTooLarge},
		{"io timeout", "read tcp: i/o timeout", ErrRequestTimedOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, transport.TranslateError(fmt.Errorf("%s", tt.input)))
		})
	}

	assert.NoError(t, transport.TranslateError(nil))
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()
	transport := &Transport{}

	assert.True(t, transport.IsRetryableError(ErrConnectionFailed))
	assert.True(t, transport.IsRetryableError(ErrBrokerNotAvailable))
	assert.False(t, transport.IsRetryableError(ErrAuthenticationFailed))

	assert.True(t, transport.IsPermanentError(ErrAuthenticationFailed))
	assert.True(t, transport.IsPermanentError(ErrTopicNotFound))
	assert.True(t, transport.IsPermanentError(ErrTransportClosed))
	assert.False(t, transport.IsPermanentError(ErrConnectionLost))

	assert.True(t, transport.IsAuthenticationError(ErrAuthorizationFailed))
	assert.False(t, transport.IsAuthenticationError(ErrNetworkError))
}

func TestRemoteError_Message(t *testing.T) {
	t.Parallel()

	err := &RemoteError{Message: "index is rebuilding"}
	assert.Equal(t, "index is rebuilding", err.Error())
}

// --- Call preconditions ---

func TestCall_WithoutReplyTopic(t *testing.T) {
	t.Parallel()

	transport, err := NewTransport(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	defer transport.GracefulShutdown()

	_, err = transport.Call(context.Background(), &rpc.Request{
		Target: rpc.Target{Topic: "somewhere"},
		Method: "hello",
		Kind:   rpc.KindCall,
	})
	assert.ErrorIs(t, err, ErrNoReplyTopic)
}

func TestPendingRegistry(t *testing.T) {
	t.Parallel()

	transport, err := NewTransport(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	defer transport.GracefulShutdown()

	replyChan := transport.registerPending("id-1")
	transport.mu.RLock()
	_, ok := transport.pending["id-1"]
	transport.mu.RUnlock()
	assert.True(t, ok)

	replyChan <- &replyEnvelope{ID: "id-1", Result: "done"}
	got := <-replyChan
	assert.Equal(t, "done", got.Result)

	transport.unregisterPending("id-1")
	transport.mu.RLock()
	_, ok = transport.pending["id-1"]
	transport.mu.RUnlock()
	assert.False(t, ok)
}

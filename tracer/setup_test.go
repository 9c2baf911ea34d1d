package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func newTestClient(t *testing.T) *TracerClient {
	t.Helper()
	client, err := NewClient(Config{ServiceName: "test", AppEnv: "test", EnableExport: false})
	require.NoError(t, err)
	return client
}

func TestNewClient_NoExport(t *testing.T) {
	t.Parallel()
	client := newTestClient(t)

	assert.NotNil(t, client)
	assert.NotNil(t, client.provider)
	assert.NotNil(t, client.shutdown)
}

func TestNewFromProvider_DoesNotOwnProvider(t *testing.T) {
	t.Parallel()
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	client := NewFromProvider(tp)

	assert.NotNil(t, client)
	assert.Nil(t, client.shutdown)
	// Shutdown on a wrapped provider is a no-op and must not error.
	assert.NoError(t, client.Shutdown(context.Background()))
}

func TestNewDefault(t *testing.T) {
	t.Parallel()
	client := NewDefault()

	assert.NotNil(t, client)
	assert.NoError(t, client.Shutdown(context.Background()))

	_, span := client.StartSpan(context.Background(), "default-op")
	assert.NotPanics(t, func() { span.End() })
}

func TestShutdown_OwnedProvider(t *testing.T) {
	t.Parallel()
	client := newTestClient(t)

	assert.NoError(t, client.Shutdown(context.Background()))
}

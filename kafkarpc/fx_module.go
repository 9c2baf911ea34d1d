package kafkarpc

import (
	"context"

	"go.uber.org/fx"

	"github.com/aalemi-dev/msgrpc-lab/observability"
	"github.com/aalemi-dev/msgrpc-lab/rpc"
)

// FXModule is an fx.Module that provides and configures the Kafka RPC
// transport.
//
// The module provides:
// 1. *Transport (concrete type) for direct use
// 2. rpc.Transport interface for dependency injection
// 3. Lifecycle management for graceful shutdown
//
// Usage:
//
//	app := fx.New(
//	    kafkarpc.FXModule,
//	    fx.Provide(func() kafkarpc.Config { return loadConfig() }),
//	    // other modules...
//	)
var FXModule = fx.Module("kafkarpc",
	fx.Provide(
		NewTransportWithDI, // Provides *Transport
		// Also provide the rpc.Transport interface
		fx.Annotate(
			func(t *Transport) rpc.Transport { return t },
			fx.As(new(rpc.Transport)),
		),
	),
	fx.Invoke(RegisterTransportLifecycle),
)

// TransportParams groups the dependencies needed to create the transport.
type TransportParams struct {
	fx.In

	Config       Config
	Logger       Logger                 `optional:"true"`
	Serializer   Serializer             `optional:"true"`
	Deserializer Deserializer           `optional:"true"`
	Observer     observability.Observer `optional:"true"`
}

// NewTransportWithDI creates the transport with dependencies injected from
// the fx container. Optional collaborators override the config-derived
// defaults when present.
func NewTransportWithDI(params TransportParams) (*Transport, error) {
	transport, err := NewTransport(params.Config)
	if err != nil {
		return nil, err
	}

	if params.Logger != nil {
		transport.WithLogger(params.Logger)
	}
	if params.Serializer != nil {
		transport.WithSerializer(params.Serializer)
	}
	if params.Deserializer != nil {
		transport.WithDeserializer(params.Deserializer)
	}
	if params.Observer != nil {
		transport.WithObserver(params.Observer)
	}

	return transport, nil
}

// RegisterTransportLifecycle registers the transport with the fx lifecycle
// system so connections close cleanly on application shutdown.
//
// This function is automatically invoked by the FXModule and normally doesn't
// need to be called directly.
func RegisterTransportLifecycle(lc fx.Lifecycle, transport *Transport) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			transport.logInfo(ctx, "Kafka RPC transport started", nil)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			transport.logInfo(ctx, "Shutting down Kafka RPC transport", nil)
			transport.GracefulShutdown()
			return nil
		},
	})
}

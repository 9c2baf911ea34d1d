package tracer

import (
	"context"
	"log"

	"go.uber.org/fx"
)

// FXModule provides a Uber FX module that configures distributed tracing for your application.
// This module registers the tracer client with the dependency injection system and
// sets up proper lifecycle management to ensure graceful startup and shutdown of the tracer.
//
// The module provides:
// 1. *TracerClient (concrete type) for direct use
// 2. Tracer interface for dependency injection
// 3. Shutdown hooks to cleanly close tracer resources
//
// Usage:
//
//	app := fx.New(
//	    tracer.FXModule,
//	    // other modules...
//	)
//	app.Run()
//
// Dependencies required by this module:
// - A tracer.Config instance must be available in the dependency injection container
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClient, // Provides *TracerClient
		// Also provide the Tracer interface
		fx.Annotate(
			func(t *TracerClient) Tracer { return t },
			fx.As(new(Tracer)),
		),
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle registers shutdown hooks for the tracer with the FX lifecycle.
// This ensures that tracer resources are properly released when the application
// terminates and pending spans are flushed to exporters.
//
// This function is automatically invoked by the FXModule and normally doesn't need
// to be called directly.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *TracerClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("INFO: shutting down tracer...")
			return tracer.Shutdown(ctx)
		},
	})
}

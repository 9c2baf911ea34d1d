// Package tracer provides distributed tracing functionality using OpenTelemetry.
//
// The tracer package is the span factory for msgrpc-lab: a simplified facade
// over the OpenTelemetry SDK that creates started spans, records errors, and
// sets statuses. It carries no instrumentation logic of its own; the
// instrument package composes it with the RPC framework seam.
//
// # Architecture
//
// The package follows the "accept interfaces, return structs" Go idiom:
//   - Tracer interface: defines the contract for span creation
//   - TracerClient struct: concrete implementation of the Tracer interface
//   - Span interface: defines the contract for span operations
//   - Constructor returns *TracerClient (concrete type)
//   - FX module provides both *TracerClient and Tracer interface
//
// Core features:
//   - Span creation with explicit span kind (client / server / internal)
//   - Start-time attributes
//   - Error recording and explicit ok/error status
//   - Optional OTLP/HTTP export of finished spans
//   - Wrapping an externally supplied TracerProvider (NewFromProvider)
//
// # Basic Usage
//
//	tracerClient, err := tracer.NewClient(tracer.Config{
//	    ServiceName:  "rpc-worker",
//	    AppEnv:       "development",
//	    EnableExport: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx, span := tracerClient.StartSpan(ctx, "msgrpc.rpc.call.hello",
//	    tracer.WithKind(tracer.KindClient),
//	    tracer.WithAttributes(map[string]interface{}{
//	        "rpc.system": "msgrpc",
//	        "rpc.method": "hello",
//	    }),
//	)
//	defer span.End()
//
//	if err := doWork(ctx); err != nil {
//	    span.RecordError(err)
//	    return err
//	}
//	span.SetStatus(tracer.StatusOK, "")
//
// # External Providers
//
// Code that already manages its own OpenTelemetry SDK pipeline can hand the
// provider over instead of letting this package build one:
//
//	client := tracer.NewFromProvider(myProvider)
//
// A client built this way never shuts the provider down; its lifetime stays
// with the owner.
//
// # FX Module Integration
//
//	app := fx.New(
//	    tracer.FXModule,
//	    fx.Provide(func() tracer.Config {
//	        return tracer.Config{ServiceName: "rpc-worker", AppEnv: "production", EnableExport: true}
//	    }),
//	)
//	app.Run()
//
// # Thread Safety
//
// All methods on the TracerClient type and Span interface are safe for
// concurrent use by multiple goroutines.
package tracer

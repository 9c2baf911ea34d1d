package instrument

import (
	"context"

	"go.uber.org/fx"

	"github.com/aalemi-dev/msgrpc-lab/logger"
	"github.com/aalemi-dev/msgrpc-lab/observability"
	"github.com/aalemi-dev/msgrpc-lab/tracer"
)

// FXModule provides a Uber FX module that activates RPC tracing for the
// lifetime of the application. The instrumentor is constructed eagerly,
// activated on start, and deactivated on stop.
//
// Usage:
//
//	app := fx.New(
//	    tracer.FXModule,
//	    logger.FXModule,
//	    instrument.FXModule,
//	    // other modules...
//	)
//	app.Run()
//
// Dependencies consumed by this module (all optional):
// - tracer.Tracer: span factory; defaults to the global provider
// - *logger.LoggerClient: activation and failure logging
// - observability.Observer: activation event tracking
var FXModule = fx.Module("instrument",
	fx.Provide(New),
	fx.Invoke(RegisterInstrumentationLifecycle),
)

// LifecycleParams collects the optional collaborators the instrumentor picks
// up from the container when present.
type LifecycleParams struct {
	fx.In

	Tracer   tracer.Tracer          `optional:"true"`
	Logger   *logger.LoggerClient   `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// RegisterInstrumentationLifecycle binds Instrument and Uninstrument to the
// FX lifecycle. This function is automatically invoked by the FXModule and
// normally doesn't need to be called directly.
func RegisterInstrumentationLifecycle(lc fx.Lifecycle, instrumentor *Instrumentor, params LifecycleParams) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var opts []Option
			if params.Tracer != nil {
				opts = append(opts, WithTracer(params.Tracer))
			}
			if params.Logger != nil {
				opts = append(opts, WithLogger(params.Logger))
			}
			if params.Observer != nil {
				opts = append(opts, WithObserver(params.Observer))
			}
			return instrumentor.Instrument(opts...)
		},
		OnStop: func(ctx context.Context) error {
			return instrumentor.Uninstrument()
		},
	})
}

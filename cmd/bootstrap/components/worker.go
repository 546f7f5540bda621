package components

import (
	"context"
	"log/slog"

	"unified-checkout/internal/pkg/clock"
	"unified-checkout/internal/pkg/config"
	"unified-checkout/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		worker.NewDispatcher,
		NewWorker,
	),
	fx.Invoke(startWorker),
)

func NewWorker(store worker.JobStore, dispatcher *worker.Dispatcher, cfg config.Config, clk clock.Clock, logger *slog.Logger) *worker.Worker {
	return worker.New(store, dispatcher, cfg.Worker, clk, logger)
}

// startWorker runs the side-effect poller for the process lifetime and waits
// for in-flight jobs to settle on shutdown.
func startWorker(lc fx.Lifecycle, w *worker.Worker, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("starting side-effect worker")
			go w.Run(ctx)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-w.Done():
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
			logger.Info("side-effect worker stopped")
			return nil
		},
	})
}

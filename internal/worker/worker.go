// Package worker drains the durable side-effect queue: calendar sync and
// confirmation emails. Jobs are decoupled from the checkout request/response
// lifecycle; a failing job is retried with backoff and dead-lettered after
// its attempt budget, and none of it ever touches the checkout outcome.
package worker

import (
	"context"
	"log/slog"
	"time"

	"unified-checkout/internal/infra/repository"
	"unified-checkout/internal/pkg/clock"
	"unified-checkout/internal/pkg/config"

	"github.com/google/uuid"
)

type JobStore interface {
	ClaimDue(ctx context.Context, now time.Time, limit int32) ([]repository.Job, error)
	MarkDone(ctx context.Context, jobID uuid.UUID) error
	MarkRetry(ctx context.Context, jobID uuid.UUID, runAt time.Time, lastError string) error
	MarkDeadLetter(ctx context.Context, jobID uuid.UUID, lastError string) error
}

type Worker struct {
	store      JobStore
	dispatcher *Dispatcher
	cfg        config.WorkerConfig
	clock      clock.Clock
	logger     *slog.Logger
	done       chan struct{}
}

func New(store JobStore, dispatcher *Dispatcher, cfg config.WorkerConfig, clk clock.Clock, logger *slog.Logger) *Worker {
	return &Worker{
		store:      store,
		dispatcher: dispatcher,
		cfg:        cfg,
		clock:      clk,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Run polls until ctx is canceled. Intended to be launched once from the fx
// lifecycle; multiple instances are safe because claiming uses SKIP LOCKED.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drainOnce(ctx)
		}
	}
}

// Done is closed when Run has returned.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

func (w *Worker) drainOnce(ctx context.Context) {
	jobs, err := w.store.ClaimDue(ctx, w.clock.Now(), w.cfg.BatchSize)
	if err != nil {
		w.logger.Error("failed to claim side-effect jobs", "error", err)
		return
	}

	for _, job := range jobs {
		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job repository.Job) {
	log := w.logger.With("job_id", job.ID, "topic", job.Topic, "attempt", job.Attempts+1)

	err := w.dispatcher.Dispatch(ctx, job)
	if err == nil {
		if markErr := w.store.MarkDone(ctx, job.ID); markErr != nil {
			log.Error("failed to mark job done", "error", markErr)
		}
		return
	}

	if job.Attempts+1 >= job.MaxAttempts {
		log.Error("side-effect job dead-lettered", "error", err, "payload", string(job.Payload))
		if markErr := w.store.MarkDeadLetter(ctx, job.ID, err.Error()); markErr != nil {
			log.Error("failed to dead-letter job", "error", markErr)
		}
		return
	}

	runAt := w.clock.Now().Add(w.backoff(job.Attempts))
	log.Warn("side-effect job failed, scheduling retry", "error", err, "run_at", runAt)
	if markErr := w.store.MarkRetry(ctx, job.ID, runAt, err.Error()); markErr != nil {
		log.Error("failed to schedule job retry", "error", markErr)
	}
}

// backoff doubles per attempt: base, 2*base, 4*base, ...
func (w *Worker) backoff(attempts int32) time.Duration {
	return w.cfg.BackoffBase << attempts
}

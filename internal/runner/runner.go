// Package runner drives background job processing: it claims pending jobs
// from the store one at a time and hands each to the pipeline orchestrator.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"reeldocs/internal/config"
	"reeldocs/internal/logging"
	"reeldocs/internal/store"
)

// JobRunner executes one claimed job to a terminal state.
type JobRunner interface {
	Run(ctx context.Context, job *store.Job) error
}

// Runner polls the store for pending jobs and processes them sequentially.
// Job ordering is the store's ordering, oldest first.
type Runner struct {
	store         *store.Store
	jobs          JobRunner
	logger        *slog.Logger
	pollInterval  time.Duration
	retryInterval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(cfg *config.Config, st *store.Store, jobs JobRunner, logger *slog.Logger) *Runner {
	return &Runner{
		store:         st,
		jobs:          jobs,
		logger:        logging.NewComponentLogger(logger, "runner"),
		pollInterval:  time.Duration(cfg.Workflow.JobPollInterval) * time.Second,
		retryInterval: time.Duration(cfg.Workflow.ErrorRetryInterval) * time.Second,
	}
}

// Start resets jobs left in processing by an earlier run, then begins
// background polling. It returns immediately.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return errors.New("runner already running")
	}

	reset, err := r.store.ResetStuckProcessing(ctx)
	if err != nil {
		r.mu.Unlock()
		return fmt.Errorf("reset stuck jobs: %w", err)
	}
	if reset > 0 {
		r.logger.Info("reset interrupted jobs to pending", logging.Int("jobs", int(reset)))
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true
	r.wg.Add(1)
	r.mu.Unlock()

	go r.run(runCtx)
	return nil
}

// Stop cancels the poll loop and waits for any in-flight job to settle.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	cancel := r.cancel
	r.running = false
	r.cancel = nil
	r.mu.Unlock()

	cancel()
	r.wg.Wait()
}

func (r *Runner) run(ctx context.Context) {
	defer r.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := r.store.ClaimNextPending(ctx)
		if err != nil {
			r.logger.Error("failed to claim next job", logging.Error(err))
			r.wait(ctx, r.retryInterval)
			continue
		}
		if job == nil {
			r.wait(ctx, r.pollInterval)
			continue
		}

		r.process(ctx, job)
	}
}

// process runs one job, containing panics so a single bad job cannot take
// the daemon down.
func (r *Runner) process(ctx context.Context, job *store.Job) {
	log := r.logger.With(
		logging.String(logging.FieldJobID, job.ID),
		logging.String(logging.FieldVideoID, job.VideoID),
	)
	log.Info("processing job")

	defer func() {
		if recovered := recover(); recovered != nil {
			log.Error("job panicked", logging.String("panic", fmt.Sprint(recovered)))
			r.failAfterPanic(ctx, job, recovered)
		}
	}()

	if err := r.jobs.Run(ctx, job); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("job interrupted by shutdown")
			return
		}
		log.Error("job failed", logging.Error(err))
	}
}

func (r *Runner) failAfterPanic(ctx context.Context, job *store.Job, recovered any) {
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}
	job.SetFailed(fmt.Sprintf("internal error: %v", recovered))
	if err := r.store.UpdateJob(ctx, job); err != nil {
		r.logger.Error("failed to persist panicked job", logging.Error(err))
	}
	if err := r.store.UpdateVideoStatus(ctx, job.VideoID, store.VideoFailed); err != nil {
		r.logger.Error("failed to mark video failed", logging.Error(err))
	}
}

func (r *Runner) wait(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

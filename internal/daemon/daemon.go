package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"reeldocs/internal/api"
	"reeldocs/internal/config"
	"reeldocs/internal/jobs"
	"reeldocs/internal/logging"
	"reeldocs/internal/pipeline"
	"reeldocs/internal/runner"
	"reeldocs/internal/services/gemini"
	"reeldocs/internal/storage"
	"reeldocs/internal/store"
)

// Daemon owns the background services and enforces single-instance execution
// through a lock file.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger

	store   *store.Store
	objects *storage.Store
	runner  *runner.Runner
	api     *api.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	DatabasePath string
	LockFilePath string
	APIAddress   string
	Jobs         store.HealthSummary
}

// New opens the store and constructs the full service graph: object storage,
// the AI client, the pipeline orchestrator, the job runner, and the API
// server. Nothing starts running until Start.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	objects, err := storage.New(cfg.Storage)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("connect object storage: %w", err)
	}
	ai, err := gemini.NewClient(ctx, cfg.Gemini, logger)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("build ai client: %w", err)
	}

	orchestrator := pipeline.New(st, objects, ai, logger)
	jobService := jobs.NewService(st, logger)
	lockPath := cfg.LockFilePath()

	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    st,
		objects:  objects,
		runner:   runner.New(cfg, st, orchestrator, logger),
		api:      api.NewServer(cfg, st, jobService, objects, logger),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the runner and API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another reeldocs daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	bucketCtx, bucketCancel := context.WithTimeout(runCtx, 5*time.Second)
	if err := d.objects.EnsureBucket(bucketCtx); err != nil {
		d.logger.Warn("object storage bucket check failed, uploads will fail until it recovers",
			logging.Error(err))
	}
	bucketCancel()

	if err := d.runner.Start(runCtx); err != nil {
		d.releaseLock()
		cancel()
		d.cancel = nil
		return fmt.Errorf("start runner: %w", err)
	}
	if err := d.api.Start(runCtx); err != nil {
		d.runner.Stop()
		d.releaseLock()
		cancel()
		d.cancel = nil
		return fmt.Errorf("start api: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop halts background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.runner.Stop()
	d.api.Stop()
	d.releaseLock()
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close stops the daemon and releases held resources.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status reports runtime information for the status command and API.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		DatabasePath: d.store.Path(),
		LockFilePath: d.lockPath,
		APIAddress:   d.api.Addr(),
	}
	if summary, err := d.store.Health(ctx); err == nil {
		status.Jobs = summary
	}
	return status
}

func (d *Daemon) releaseLock() {
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
}

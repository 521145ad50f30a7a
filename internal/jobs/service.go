// Package jobs exposes the job lifecycle operations shared by the API and
// the CLI: starting processing for a video, retrying a failed job, and
// reading job state.
package jobs

import (
	"context"
	"errors"
	"log/slog"

	"reeldocs/internal/logging"
	"reeldocs/internal/services"
	"reeldocs/internal/store"
)

type Service struct {
	store  *store.Store
	logger *slog.Logger
}

func NewService(st *store.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  st,
		logger: logging.NewComponentLogger(logger, "jobs"),
	}
}

// Start queues a processing job for a video. The first language is the
// primary documentation language; the rest are translation targets. A video
// with a pending or processing job cannot be queued again.
func (s *Service) Start(ctx context.Context, videoID string, languages []string) (*store.Job, error) {
	normalized, err := NormalizeLanguages(languages)
	if err != nil {
		return nil, err
	}

	video, err := s.store.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, services.Wrap(services.ErrNotFound, "jobs", "start", "video "+videoID+" not found", nil)
	}

	job, err := s.store.CreateJob(ctx, video.ID, video.ProjectID, normalized)
	if err != nil {
		if isActiveJob(err) {
			return nil, services.Wrap(services.ErrInvalidState, "jobs", "start",
				"video "+videoID+" already has an active job", err)
		}
		return nil, err
	}

	s.logger.Info("job queued",
		logging.String(logging.FieldJobID, job.ID),
		logging.String(logging.FieldVideoID, video.ID),
		logging.Int("languages", len(normalized)))
	return job, nil
}

// Retry marks a failed job as retried and queues a fresh job for the same
// video and language set. Only failed jobs can be retried, and only while the
// video has no other active job; a rejected retry leaves the failed job
// retryable.
func (s *Service) Retry(ctx context.Context, jobID string) (*store.Job, error) {
	failed, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if failed == nil {
		return nil, services.Wrap(services.ErrNotFound, "jobs", "retry", "job "+jobID+" not found", nil)
	}
	if failed.Status != store.JobFailed {
		return nil, services.Wrap(services.ErrInvalidState, "jobs", "retry",
			"job "+jobID+" is "+string(failed.Status)+", only failed jobs can be retried", nil)
	}

	job, err := s.store.RetryJob(ctx, jobID)
	if err != nil {
		if isActiveJob(err) {
			return nil, services.Wrap(services.ErrInvalidState, "jobs", "retry",
				"video "+failed.VideoID+" already has an active job", err)
		}
		return nil, err
	}

	s.logger.Info("job retried",
		logging.String("original_job_id", jobID),
		logging.String(logging.FieldJobID, job.ID),
		logging.String(logging.FieldVideoID, failed.VideoID))
	return job, nil
}

// Get returns a job by id, or a not-found error.
func (s *Service) Get(ctx context.Context, jobID string) (*store.Job, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, services.Wrap(services.ErrNotFound, "jobs", "get", "job "+jobID+" not found", nil)
	}
	return job, nil
}

// ListActive returns pending and processing jobs for a project, newest first.
func (s *Service) ListActive(ctx context.Context, projectID string) ([]*store.Job, error) {
	return s.store.ListActiveJobs(ctx, projectID)
}

// ListRecent returns the most recently created jobs for a project.
func (s *Service) ListRecent(ctx context.Context, projectID string, limit int) ([]*store.Job, error) {
	return s.store.ListRecentJobs(ctx, projectID, limit)
}

// Health summarizes job counts by status across all projects.
func (s *Service) Health(ctx context.Context) (store.HealthSummary, error) {
	return s.store.Health(ctx)
}

func isActiveJob(err error) bool {
	return errors.Is(err, store.ErrActiveJob)
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrActiveJob indicates a pending or processing job already exists for the
// video, so a second run may not be started.
var ErrActiveJob = errors.New("video already has an active job")

const jobColumns = "id, video_id, project_id, status, step, step_message, progress, languages_json, error_message, created_at, started_at, completed_at, updated_at"

// CreateJob inserts a new pending job for a video. At most one pending or
// processing job may exist per video; a conflicting insert fails with
// ErrActiveJob. The check and insert share one transaction.
func (s *Store) CreateJob(ctx context.Context, videoID, projectID string, languages []string) (*Job, error) {
	if len(languages) == 0 {
		return nil, errors.New("languages must not be empty")
	}
	languagesJSON, err := json.Marshal(languages)
	if err != nil {
		return nil, fmt.Errorf("encode languages: %w", err)
	}

	now := time.Now().UTC()
	job := &Job{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		ProjectID: projectID,
		Status:    JobPending,
		Step:      "pending",
		Languages: append([]string{}, languages...),
		CreatedAt: now,
		UpdatedAt: now,
	}

	ctx = ensureContext(ctx)
	err = retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin job tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var active int
		if err := tx.QueryRowContext(
			ctx,
			`SELECT COUNT(1) FROM processing_jobs WHERE video_id = ? AND status IN (?, ?)`,
			videoID,
			JobPending,
			JobProcessing,
		).Scan(&active); err != nil {
			return fmt.Errorf("check active jobs: %w", err)
		}
		if active > 0 {
			return ErrActiveJob
		}

		timestamp := now.Format(time.RFC3339Nano)
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO processing_jobs (id, video_id, project_id, status, step, step_message, progress, languages_json, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, ?)`,
			job.ID,
			job.VideoID,
			job.ProjectID,
			job.Status,
			job.Step,
			"Queued for processing",
			string(languagesJSON),
			timestamp,
			timestamp,
		); err != nil {
			return fmt.Errorf("insert job: %w", err)
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	job.StepMessage = "Queued for processing"
	return job, nil
}

// GetJob fetches a job by identifier, returning nil when absent.
func (s *Store) GetJob(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM processing_jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// UpdateJob persists changes to an existing job row.
func (s *Store) UpdateJob(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("job is nil")
	}
	job.UpdatedAt = time.Now().UTC()
	languagesJSON, err := json.Marshal(job.Languages)
	if err != nil {
		return fmt.Errorf("encode languages: %w", err)
	}
	_, err = s.execWithRetry(
		ctx,
		`UPDATE processing_jobs
         SET status = ?, step = ?, step_message = ?, progress = ?, languages_json = ?,
             error_message = ?, started_at = ?, completed_at = ?, updated_at = ?
         WHERE id = ?`,
		job.Status,
		nullableString(job.Step),
		nullableString(job.StepMessage),
		job.Progress,
		string(languagesJSON),
		nullableString(job.ErrorMessage),
		nullableTime(job.StartedAt),
		nullableTime(job.CompletedAt),
		job.UpdatedAt.Format(time.RFC3339Nano),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

// ClaimNextPending atomically transitions the oldest pending job to
// processing and returns it. Returns nil when no pending job exists. The
// guarded update makes concurrent claimers safe: only one wins each row.
func (s *Store) ClaimNextPending(ctx context.Context) (*Job, error) {
	ctx = ensureContext(ctx)
	for {
		row := s.db.QueryRowContext(
			ctx,
			`SELECT id FROM processing_jobs WHERE status = ? ORDER BY created_at, id LIMIT 1`,
			JobPending,
		)
		var id string
		err := row.Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("next pending job: %w", err)
		}

		now := time.Now().UTC()
		res, err := s.execWithRetry(
			ctx,
			`UPDATE processing_jobs
             SET status = ?, started_at = ?, updated_at = ?
             WHERE id = ? AND status = ?`,
			JobProcessing,
			now.Format(time.RFC3339Nano),
			now.Format(time.RFC3339Nano),
			id,
			JobPending,
		)
		if err != nil {
			return nil, fmt.Errorf("claim job: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("claim rows affected: %w", err)
		}
		if affected == 0 {
			// Lost the race for this row; try the next one.
			continue
		}
		return s.GetJob(ctx, id)
	}
}

// RetryJob supersedes a failed job with a fresh pending one for the same
// video and language set. The active-job check, the successor insert, and the
// failed→retried flip share one transaction: when the video already has a
// pending or processing job the call fails with ErrActiveJob and the failed
// job keeps its status, so it stays retryable later.
func (s *Store) RetryJob(ctx context.Context, id string) (*Job, error) {
	now := time.Now().UTC()
	job := &Job{
		ID:        uuid.NewString(),
		Status:    JobPending,
		Step:      "pending",
		CreatedAt: now,
		UpdatedAt: now,
	}

	ctx = ensureContext(ctx)
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin retry tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var (
			status       string
			languagesRaw string
		)
		row := tx.QueryRowContext(
			ctx,
			`SELECT video_id, project_id, status, languages_json FROM processing_jobs WHERE id = ?`,
			id,
		)
		if err := row.Scan(&job.VideoID, &job.ProjectID, &status, &languagesRaw); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("job %s not found", id)
			}
			return fmt.Errorf("read job for retry: %w", err)
		}
		if JobStatus(status) != JobFailed {
			return fmt.Errorf("job %s is not in a failed state", id)
		}
		if err := json.Unmarshal([]byte(languagesRaw), &job.Languages); err != nil {
			return fmt.Errorf("decode languages: %w", err)
		}

		var active int
		if err := tx.QueryRowContext(
			ctx,
			`SELECT COUNT(1) FROM processing_jobs WHERE video_id = ? AND status IN (?, ?)`,
			job.VideoID,
			JobPending,
			JobProcessing,
		).Scan(&active); err != nil {
			return fmt.Errorf("check active jobs: %w", err)
		}
		if active > 0 {
			return ErrActiveJob
		}

		timestamp := now.Format(time.RFC3339Nano)
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO processing_jobs (id, video_id, project_id, status, step, step_message, progress, languages_json, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, ?)`,
			job.ID,
			job.VideoID,
			job.ProjectID,
			job.Status,
			job.Step,
			"Queued for processing",
			languagesRaw,
			timestamp,
			timestamp,
		); err != nil {
			return fmt.Errorf("insert retry job: %w", err)
		}
		if _, err := tx.ExecContext(
			ctx,
			`UPDATE processing_jobs SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
			JobRetried,
			timestamp,
			id,
			JobFailed,
		); err != nil {
			return fmt.Errorf("mark job retried: %w", err)
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	job.StepMessage = "Queued for processing"
	return job, nil
}

// ListActiveJobs returns a project's pending and processing jobs, newest first.
func (s *Store) ListActiveJobs(ctx context.Context, projectID string) ([]*Job, error) {
	return s.queryJobs(
		ctx,
		`SELECT `+jobColumns+` FROM processing_jobs
         WHERE project_id = ? AND status IN (?, ?) ORDER BY created_at DESC`,
		projectID,
		JobPending,
		JobProcessing,
	)
}

// ListRecentJobs returns a project's most recent jobs including superseded
// (retried) ones, newest first.
func (s *Store) ListRecentJobs(ctx context.Context, projectID string, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.queryJobs(
		ctx,
		`SELECT `+jobColumns+` FROM processing_jobs
         WHERE project_id = ? ORDER BY created_at DESC LIMIT ?`,
		projectID,
		limit,
	)
}

// ResetStuckProcessing returns processing jobs to pending. Called once at
// daemon startup so jobs orphaned by a crash get re-run (checkpoints make the
// re-run cheap).
func (s *Store) ResetStuckProcessing(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE processing_jobs
         SET status = ?, step_message = 'Reset after daemon restart', updated_at = ?
         WHERE status = ?`,
		JobPending,
		time.Now().UTC().Format(time.RFC3339Nano),
		JobProcessing,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck jobs: %w", err)
	}
	return res.RowsAffected()
}

// Health aggregates job state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM processing_jobs GROUP BY status`)
	if err != nil {
		return HealthSummary{}, fmt.Errorf("job stats: %w", err)
	}
	defer rows.Close()

	health := HealthSummary{}
	for rows.Next() {
		var (
			status JobStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return HealthSummary{}, err
		}
		health.Total += count
		switch status {
		case JobPending:
			health.Pending += count
		case JobProcessing:
			health.Processing += count
		case JobCompleted:
			health.Completed += count
		case JobFailed:
			health.Failed += count
		case JobRetried:
			health.Retried += count
		}
	}
	return health, rows.Err()
}

func (s *Store) queryJobs(ctx context.Context, query string, args ...any) ([]*Job, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		job          Job
		statusStr    string
		step         sql.NullString
		stepMessage  sql.NullString
		languagesRaw string
		errorMessage sql.NullString
		createdRaw   string
		startedRaw   sql.NullString
		completedRaw sql.NullString
		updatedRaw   string
	)
	if err := scanner.Scan(
		&job.ID,
		&job.VideoID,
		&job.ProjectID,
		&statusStr,
		&step,
		&stepMessage,
		&job.Progress,
		&languagesRaw,
		&errorMessage,
		&createdRaw,
		&startedRaw,
		&completedRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	job.Status = JobStatus(statusStr)
	job.Step = step.String
	job.StepMessage = stepMessage.String
	job.ErrorMessage = errorMessage.String
	if languagesRaw != "" {
		if err := json.Unmarshal([]byte(languagesRaw), &job.Languages); err != nil {
			return nil, fmt.Errorf("decode languages: %w", err)
		}
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		job.CreatedAt = created
	}
	if startedRaw.Valid {
		if started, err := parseTimeString(startedRaw.String); err == nil {
			job.StartedAt = &started
		}
	}
	if completedRaw.Valid {
		if completed, err := parseTimeString(completedRaw.String); err == nil {
			job.CompletedAt = &completed
		}
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		job.UpdatedAt = updated
	}
	return &job, nil
}

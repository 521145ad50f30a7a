package store

import (
	"strings"
	"time"
)

// VideoStatus represents the lifecycle of an uploaded video.
type VideoStatus string

const (
	VideoUploading  VideoStatus = "uploading"
	VideoProcessing VideoStatus = "processing"
	VideoReady      VideoStatus = "ready"
	VideoFailed     VideoStatus = "failed"
)

// JobStatus represents the lifecycle of one pipeline execution attempt.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
	// JobRetried marks a failed job superseded by a newer attempt. Retried
	// jobs stay visible in history listings but are never resumed in place.
	JobRetried JobStatus = "retried"
)

// ArticleStatus represents the publication state of a generated article.
type ArticleStatus string

const (
	ArticleDraft     ArticleStatus = "draft"
	ArticlePublished ArticleStatus = "published"
)

var jobStatusSet = map[JobStatus]struct{}{
	JobPending:    {},
	JobProcessing: {},
	JobCompleted:  {},
	JobFailed:     {},
	JobRetried:    {},
}

// ParseJobStatus converts a string into a known JobStatus.
func ParseJobStatus(value string) (JobStatus, bool) {
	normalized := JobStatus(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := jobStatusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a job status will never change again.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobCompleted, JobFailed, JobRetried:
		return true
	default:
		return false
	}
}

// IsActive reports whether a job is queued or running.
func (s JobStatus) IsActive() bool {
	return s == JobPending || s == JobProcessing
}

// Project groups videos, chapters, and articles.
type Project struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
}

// Video identifies one uploaded source file.
type Video struct {
	ID          string
	ProjectID   string
	Title       string
	StoragePath string
	Status      VideoStatus
	// CaptionsByLanguage maps a language code to its WebVTT caption document.
	CaptionsByLanguage map[string]string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Segment is one logical time-slice of a video. The full segment set for a
// video is written exactly once per successful extraction; OrderIndex is
// zero-based and contiguous in extraction order.
type Segment struct {
	ID            int64
	VideoID       string
	StartTime     float64
	EndTime       float64
	SpokenContent string
	VisualContext string
	OrderIndex    int
}

// Chapter is a named grouping of articles within a project. Slug is unique per
// project and upserted on conflict.
type Chapter struct {
	ID        string
	ProjectID string
	Title     string
	Slug      string
	CreatedAt time.Time
}

// Article is one generated documentation unit in a single language.
type Article struct {
	ID          string
	ProjectID   string
	VideoID     string
	ChapterID   string
	Title       string
	Slug        string
	Language    string
	ContentJSON string
	ContentText string
	Status      ArticleStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Job is one pipeline execution attempt for a video and language set.
// Languages is ordered; the first entry is the primary language.
type Job struct {
	ID           string
	VideoID      string
	ProjectID    string
	Status       JobStatus
	Step         string
	StepMessage  string
	Progress     float64
	Languages    []string
	ErrorMessage string
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
	UpdatedAt    time.Time
}

// SetProgress updates step, message, and progress together. Progress never
// moves backwards within a run.
func (j *Job) SetProgress(step, message string, progress float64) {
	j.Step = step
	j.StepMessage = message
	if progress > j.Progress {
		j.Progress = progress
	}
}

// SetFailed marks the job as failed with the given error message.
func (j *Job) SetFailed(message string) {
	now := time.Now().UTC()
	j.Status = JobFailed
	j.ErrorMessage = message
	j.StepMessage = message
	j.CompletedAt = &now
}

// SetCompleted marks the job as successfully finished.
func (j *Job) SetCompleted() {
	now := time.Now().UTC()
	j.Status = JobCompleted
	j.Progress = 1.0
	j.Step = "completed"
	j.StepMessage = "Documentation ready"
	j.ErrorMessage = ""
	j.CompletedAt = &now
}

// HealthSummary describes aggregated job counts per key lifecycle state.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Completed  int
	Failed     int
	Retried    int
}

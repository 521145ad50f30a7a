package jobs_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"reeldocs/internal/jobs"
	"reeldocs/internal/logging"
	"reeldocs/internal/services"
	"reeldocs/internal/store"
	"reeldocs/internal/testsupport"
)

func newService(t *testing.T) (*jobs.Service, *store.Store, *store.Video) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	project := testsupport.NewProject(t, st, "Tutorials")
	video := testsupport.NewVideo(t, st, project.ID, "intro")
	return jobs.NewService(st, logging.NewNop()), st, video
}

func TestStartQueuesJobWithNormalizedLanguages(t *testing.T) {
	svc, st, video := newService(t)
	ctx := context.Background()

	job, err := svc.Start(ctx, video.ID, []string{"EN", "de", " de ", "fr"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if want := []string{"en", "de", "fr"}; !reflect.DeepEqual(job.Languages, want) {
		t.Fatalf("expected languages %v, got %v", want, job.Languages)
	}
	if job.Status != store.JobPending {
		t.Fatalf("expected pending job, got %s", job.Status)
	}

	stored, err := st.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if stored == nil || stored.VideoID != video.ID {
		t.Fatalf("expected stored job for video %s, got %#v", video.ID, stored)
	}
}

func TestStartRejectsUnknownVideo(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Start(context.Background(), "missing-video", []string{"en"})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestStartRejectsInvalidLanguages(t *testing.T) {
	svc, _, video := newService(t)

	_, err := svc.Start(context.Background(), video.ID, []string{"totally/bogus"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = svc.Start(context.Background(), video.ID, []string{"   "})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty list, got %v", err)
	}
}

func TestStartRejectsSecondActiveJob(t *testing.T) {
	svc, _, video := newService(t)
	ctx := context.Background()

	if _, err := svc.Start(ctx, video.ID, []string{"en"}); err != nil {
		t.Fatalf("first start: %v", err)
	}
	_, err := svc.Start(ctx, video.ID, []string{"en"})
	if !errors.Is(err, services.ErrInvalidState) {
		t.Fatalf("expected invalid-state error, got %v", err)
	}
	if !errors.Is(err, store.ErrActiveJob) {
		t.Fatalf("expected the active-job cause to be preserved, got %v", err)
	}
}

func TestRetryRequiresFailedJob(t *testing.T) {
	svc, st, video := newService(t)
	ctx := context.Background()

	_, err := svc.Retry(ctx, "missing-job")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}

	job, err := svc.Start(ctx, video.ID, []string{"en"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Retry(ctx, job.ID); !errors.Is(err, services.ErrInvalidState) {
		t.Fatalf("expected invalid-state error for pending job, got %v", err)
	}

	job.SetCompleted()
	if err := st.UpdateJob(ctx, job); err != nil {
		t.Fatalf("update job: %v", err)
	}
	if _, err := svc.Retry(ctx, job.ID); !errors.Is(err, services.ErrInvalidState) {
		t.Fatalf("expected invalid-state error for completed job, got %v", err)
	}
}

func TestRetryQueuesFreshJobForFailedOne(t *testing.T) {
	svc, st, video := newService(t)
	ctx := context.Background()

	job, err := svc.Start(ctx, video.ID, []string{"en", "es"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	job.SetFailed("upload timed out")
	if err := st.UpdateJob(ctx, job); err != nil {
		t.Fatalf("update job: %v", err)
	}

	retried, err := svc.Retry(ctx, job.ID)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if retried.ID == job.ID {
		t.Fatal("retry must create a new job")
	}
	if retried.Status != store.JobPending {
		t.Fatalf("expected pending retry job, got %s", retried.Status)
	}
	if !reflect.DeepEqual(retried.Languages, job.Languages) {
		t.Fatalf("expected languages %v, got %v", job.Languages, retried.Languages)
	}

	original, err := st.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("get original: %v", err)
	}
	if original.Status != store.JobRetried {
		t.Fatalf("expected original job marked retried, got %s", original.Status)
	}
}

func TestRetryRejectedWhileNewerJobActive(t *testing.T) {
	svc, st, video := newService(t)
	ctx := context.Background()

	failed, err := svc.Start(ctx, video.ID, []string{"en"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	failed.SetFailed("upload timed out")
	if err := st.UpdateJob(ctx, failed); err != nil {
		t.Fatalf("update job: %v", err)
	}

	// The user re-queues the video before retrying the old failed job.
	newer, err := svc.Start(ctx, video.ID, []string{"en"})
	if err != nil {
		t.Fatalf("second start: %v", err)
	}

	_, err = svc.Retry(ctx, failed.ID)
	if !errors.Is(err, services.ErrInvalidState) {
		t.Fatalf("expected invalid-state error, got %v", err)
	}
	if !errors.Is(err, store.ErrActiveJob) {
		t.Fatalf("expected the active-job cause to be preserved, got %v", err)
	}

	// The failed job must survive the rejection so it can still be retried
	// once the newer job settles.
	original, err := st.GetJob(ctx, failed.ID)
	if err != nil {
		t.Fatalf("get original: %v", err)
	}
	if original.Status != store.JobFailed {
		t.Fatalf("failed job was superseded: %s", original.Status)
	}

	newer.SetFailed("also failed")
	if err := st.UpdateJob(ctx, newer); err != nil {
		t.Fatalf("update newer: %v", err)
	}
	if _, err := svc.Retry(ctx, failed.ID); err != nil {
		t.Fatalf("retry after newer settled: %v", err)
	}
}

func TestGetReturnsNotFoundForMissingJob(t *testing.T) {
	svc, _, _ := newService(t)

	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

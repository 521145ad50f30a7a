package testsupport

import (
	"context"
	"testing"

	"reeldocs/internal/config"
	"reeldocs/internal/store"
)

// MustOpenStore opens a store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewProject creates a project for tests using the provided store.
func NewProject(t testing.TB, st *store.Store, name string) *store.Project {
	t.Helper()

	project, err := st.CreateProject(context.Background(), name)
	if err != nil {
		t.Fatalf("store.CreateProject: %v", err)
	}
	return project
}

// NewVideo creates a video under a project for tests.
func NewVideo(t testing.TB, st *store.Store, projectID, title string) *store.Video {
	t.Helper()

	video, err := st.CreateVideo(context.Background(), projectID, title, "videos/"+title+".mp4")
	if err != nil {
		t.Fatalf("store.CreateVideo: %v", err)
	}
	return video
}

// NewJob creates a pending job for a video using the provided languages.
func NewJob(t testing.TB, st *store.Store, videoID, projectID string, languages ...string) *store.Job {
	t.Helper()

	if len(languages) == 0 {
		languages = []string{"en"}
	}
	job, err := st.CreateJob(context.Background(), videoID, projectID, languages)
	if err != nil {
		t.Fatalf("store.CreateJob: %v", err)
	}
	return job
}

package store_test

import (
	"context"
	"testing"

	"reeldocs/internal/store"
	"reeldocs/internal/testsupport"
)

func TestOpenAppliesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	project, err := st.CreateProject(ctx, "Onboarding Guides")
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if project.ID == "" {
		t.Fatal("expected project ID to be assigned")
	}
	if project.Slug != "onboarding-guides" {
		t.Fatalf("unexpected project slug: %q", project.Slug)
	}

	fetched, err := st.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if fetched == nil || fetched.Name != "Onboarding Guides" {
		t.Fatalf("unexpected fetched project: %#v", fetched)
	}
}

func TestGetProjectMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	project, err := st.GetProject(context.Background(), "no-such-project")
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if project != nil {
		t.Fatalf("expected nil for missing project, got %#v", project)
	}
}

func TestVideoStatusAndCaptions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	project := testsupport.NewProject(t, st, "Demo")
	video := testsupport.NewVideo(t, st, project.ID, "intro")

	if video.Status != store.VideoUploading {
		t.Fatalf("expected new video in uploading state, got %s", video.Status)
	}

	if err := st.UpdateVideoStatus(ctx, video.ID, store.VideoProcessing); err != nil {
		t.Fatalf("UpdateVideoStatus failed: %v", err)
	}
	if err := st.SetVideoCaption(ctx, video.ID, "en", "WEBVTT\n\n00:00:00.000 --> 00:00:05.000\nHello"); err != nil {
		t.Fatalf("SetVideoCaption failed: %v", err)
	}
	if err := st.SetVideoCaption(ctx, video.ID, "es", "WEBVTT\n\n00:00:00.000 --> 00:00:05.000\nHola"); err != nil {
		t.Fatalf("SetVideoCaption failed: %v", err)
	}

	fetched, err := st.GetVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("GetVideo failed: %v", err)
	}
	if fetched.Status != store.VideoProcessing {
		t.Fatalf("unexpected video status: %s", fetched.Status)
	}
	if len(fetched.CaptionsByLanguage) != 2 {
		t.Fatalf("expected captions in two languages, got %#v", fetched.CaptionsByLanguage)
	}
	if got := fetched.CaptionsByLanguage["es"]; got == "" {
		t.Fatal("expected Spanish captions to be stored")
	}
}

func TestInsertSegmentsPreservesOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	project := testsupport.NewProject(t, st, "Demo")
	video := testsupport.NewVideo(t, st, project.ID, "intro")

	segments := []store.Segment{
		{StartTime: 0, EndTime: 42.5, SpokenContent: "Welcome", VisualContext: "Title card"},
		{StartTime: 42.5, EndTime: 90, SpokenContent: "First steps", VisualContext: "Dashboard"},
		{StartTime: 90, EndTime: 140, SpokenContent: "Wrap up", VisualContext: "Summary slide"},
	}
	if err := st.InsertSegments(ctx, video.ID, segments); err != nil {
		t.Fatalf("InsertSegments failed: %v", err)
	}

	count, err := st.CountSegments(ctx, video.ID)
	if err != nil {
		t.Fatalf("CountSegments failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 segments, got %d", count)
	}

	stored, err := st.SegmentsByVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("SegmentsByVideo failed: %v", err)
	}
	for i, segment := range stored {
		if segment.OrderIndex != i {
			t.Fatalf("segment %d has order index %d", i, segment.OrderIndex)
		}
	}
	if stored[2].SpokenContent != "Wrap up" {
		t.Fatalf("unexpected final segment: %#v", stored[2])
	}
}

func TestUpsertChapterDeduplicatesBySlug(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	project := testsupport.NewProject(t, st, "Demo")

	first, err := st.UpsertChapter(ctx, project.ID, "Getting Started")
	if err != nil {
		t.Fatalf("UpsertChapter failed: %v", err)
	}
	second, err := st.UpsertChapter(ctx, project.ID, "Getting Started")
	if err != nil {
		t.Fatalf("second UpsertChapter failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same chapter row, got %s and %s", first.ID, second.ID)
	}

	count, err := st.CountChapters(ctx, project.ID)
	if err != nil {
		t.Fatalf("CountChapters failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one chapter after duplicate upsert, got %d", count)
	}
}

func TestCountArticlesIsPerLanguage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	project := testsupport.NewProject(t, st, "Demo")
	video := testsupport.NewVideo(t, st, project.ID, "intro")

	for _, title := range []string{"Setup", "Usage"} {
		if _, err := st.InsertArticle(ctx, &store.Article{
			ProjectID:   project.ID,
			VideoID:     video.ID,
			Title:       title,
			Language:    "en",
			ContentJSON: `{"type":"doc","content":[]}`,
			ContentText: title,
		}); err != nil {
			t.Fatalf("InsertArticle failed: %v", err)
		}
	}

	enCount, err := st.CountArticles(ctx, video.ID, "en")
	if err != nil {
		t.Fatalf("CountArticles failed: %v", err)
	}
	if enCount != 2 {
		t.Fatalf("expected 2 English articles, got %d", enCount)
	}

	esCount, err := st.CountArticles(ctx, video.ID, "es")
	if err != nil {
		t.Fatalf("CountArticles failed: %v", err)
	}
	if esCount != 0 {
		t.Fatalf("expected no Spanish articles yet, got %d", esCount)
	}
}

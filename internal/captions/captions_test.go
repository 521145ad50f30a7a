package captions_test

import (
	"errors"
	"strings"
	"testing"

	"reeldocs/internal/captions"
	"reeldocs/internal/store"
)

func TestBuildProducesWebVTTCues(t *testing.T) {
	document, err := captions.Build([]store.Segment{
		{StartTime: 0, EndTime: 4.5, SpokenContent: "Welcome to the demo."},
		{StartTime: 75, EndTime: 92.25, SpokenContent: "Install the dependencies."},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if !strings.HasPrefix(document, "WEBVTT") {
		t.Fatalf("missing WEBVTT header: %q", document[:20])
	}
	if !strings.Contains(document, "00:00:00.000 --> 00:00:04.500") {
		t.Fatalf("missing first cue timing:\n%s", document)
	}
	if !strings.Contains(document, "00:01:15.000 --> 00:01:32.250") {
		t.Fatalf("missing second cue timing:\n%s", document)
	}
	if !strings.Contains(document, "Install the dependencies.") {
		t.Fatalf("missing cue text:\n%s", document)
	}
}

func TestBuildRoundTripsThroughParse(t *testing.T) {
	document, err := captions.Build([]store.Segment{
		{StartTime: 0, EndTime: 10, SpokenContent: "First cue."},
		{StartTime: 10, EndTime: 20, SpokenContent: "Second cue."},
		{StartTime: 20, EndTime: 30, SpokenContent: "Third cue."},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	subs, err := captions.Parse(document)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(subs.Items) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(subs.Items))
	}
	if got := subs.Items[1].String(); got != "Second cue." {
		t.Fatalf("unexpected second cue text: %q", got)
	}
}

func TestBuildRejectsEmptyAndInverted(t *testing.T) {
	if _, err := captions.Build(nil); !errors.Is(err, captions.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if _, err := captions.Build([]store.Segment{
		{StartTime: 10, EndTime: 5, SpokenContent: "backwards"},
	}); err == nil {
		t.Fatal("expected error for inverted cue times")
	}
}

func TestValidate(t *testing.T) {
	document, err := captions.Build([]store.Segment{
		{StartTime: 0, EndTime: 2, SpokenContent: "Hola."},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := captions.Validate(document); err != nil {
		t.Fatalf("Validate rejected good document: %v", err)
	}
	if err := captions.Validate("not a caption file"); err == nil {
		t.Fatal("expected error for malformed document")
	}
}

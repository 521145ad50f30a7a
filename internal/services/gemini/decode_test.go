package gemini

import (
	"errors"
	"strings"
	"testing"

	"reeldocs/internal/services"
)

func TestStripControlBytes(t *testing.T) {
	input := "{\"a\":\x00\"b\x1f\"}\n\ttail\x7f"
	got := StripControlBytes(input)
	want := "{\"a\":\"b\"}\n\ttail"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestStripControlBytesKeepsMultibyteRunes(t *testing.T) {
	input := "Grüße \x01 日本語"
	got := StripControlBytes(input)
	if got != "Grüße  日本語" {
		t.Fatalf("multibyte text mangled: %q", got)
	}
}

func TestStripCodeFence(t *testing.T) {
	fenced := "```json\n{\"title\":\"x\"}\n```"
	if got := stripCodeFence(fenced); got != `{"title":"x"}` {
		t.Fatalf("fence not stripped: %q", got)
	}
	plain := `{"title":"x"}`
	if got := stripCodeFence(plain); got != plain {
		t.Fatalf("unfenced text altered: %q", got)
	}
}

func TestDecodeSegmentsArrayAndWrappedObject(t *testing.T) {
	array := `[{"start_time":0,"end_time":42,"spoken_content":"hi","visual_context":"screen"}]`
	segments, err := DecodeSegments(array)
	if err != nil {
		t.Fatalf("array decode failed: %v", err)
	}
	if len(segments) != 1 || segments[0].EndTime != 42 {
		t.Fatalf("unexpected segments: %#v", segments)
	}

	wrapped := `{"segments":[{"start_time":1,"end_time":2,"spoken_content":"a","visual_context":"b"}]}`
	segments, err = DecodeSegments(wrapped)
	if err != nil {
		t.Fatalf("wrapped decode failed: %v", err)
	}
	if len(segments) != 1 || segments[0].StartTime != 1 {
		t.Fatalf("unexpected wrapped segments: %#v", segments)
	}
}

func TestDecodeSegmentsRejectsBadInput(t *testing.T) {
	if _, err := DecodeSegments("nonsense"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := DecodeSegments("[]"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty array, got %v", err)
	}
	inverted := `[{"start_time":10,"end_time":5,"spoken_content":"x","visual_context":"y"}]`
	if _, err := DecodeSegments(inverted); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for inverted times, got %v", err)
	}
}

func TestDecodeSegmentsSurvivesControlBytes(t *testing.T) {
	dirty := "[{\"start_time\":0,\"end_time\":5,\"spoken_content\":\"he\x00llo\",\"visual_context\":\"\x1fui\"}]"
	segments, err := DecodeSegments(dirty)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if segments[0].SpokenContent != "hello" {
		t.Fatalf("control bytes leaked: %q", segments[0].SpokenContent)
	}
}

func TestDecodeGeneratedDoc(t *testing.T) {
	raw := `{"title":"Guide","chapters":[{"title":"Setup","sections":[{"heading":"Install","content":"Run [video:01:15] npm install.","timestamp_ref":"01:15"}]}]}`
	doc, err := DecodeGeneratedDoc(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if doc.Title != "Guide" || len(doc.Chapters) != 1 {
		t.Fatalf("unexpected doc: %#v", doc)
	}
	section := doc.Chapters[0].Sections[0]
	if section.TimestampRef != "01:15" || !strings.Contains(section.Content, "[video:01:15]") {
		t.Fatalf("unexpected section: %#v", section)
	}

	if _, err := DecodeGeneratedDoc(`{"title":"empty","chapters":[]}`); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for chapterless doc, got %v", err)
	}
}

func TestDocGenerationPromptFallsBackToDevelopers(t *testing.T) {
	known := docGenerationPrompt("end-users", "[]")
	if !strings.Contains(known, "non-technical end users") {
		t.Fatal("end-users instruction missing")
	}
	unknown := docGenerationPrompt("astronauts", "[]")
	if !strings.Contains(unknown, "software developers") {
		t.Fatal("expected developers fallback for unknown audience")
	}
}

func TestExtractionPromptEmbedsSegmentBounds(t *testing.T) {
	prompt := extractionPrompt(30, 120)
	if !strings.Contains(prompt, "(30-120 seconds each)") {
		t.Fatalf("segment bounds missing: %s", prompt)
	}
}

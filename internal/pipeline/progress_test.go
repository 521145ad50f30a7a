package pipeline

import (
	"math"
	"reflect"
	"testing"
)

func TestEstimateProgressAnchors(t *testing.T) {
	cases := []struct {
		name  string
		step  string
		sub   int
		total int
		want  float64
	}{
		{name: "uploading", step: StepUploading, want: 0.05},
		{name: "transcribing", step: StepTranscribing, want: 0.20},
		{name: "docs generated", step: StepGeneratingDocs, want: 0.55},
		{name: "first of two translations", step: StepTranslating, sub: 1, total: 2, want: 0.75},
		{name: "all translations", step: StepTranslating, sub: 2, total: 2, want: 0.95},
		{name: "no targets", step: StepTranslating, sub: 0, total: 0, want: 0.95},
		{name: "sub index clamped", step: StepTranslating, sub: 5, total: 2, want: 0.95},
		{name: "completed", step: StepCompleted, want: 1.0},
		{name: "unknown step", step: "mystery", want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EstimateProgress(tc.step, tc.sub, tc.total)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("EstimateProgress(%q, %d, %d) = %v, want %v", tc.step, tc.sub, tc.total, got, tc.want)
			}
		})
	}
}

func TestEstimateProgressNeverExceedsTranslationCeiling(t *testing.T) {
	previous := 0.0
	for sub := 0; sub <= 4; sub++ {
		got := EstimateProgress(StepTranslating, sub, 4)
		if got < previous {
			t.Fatalf("progress regressed from %v to %v at sub index %d", previous, got, sub)
		}
		if got > 0.95+1e-9 {
			t.Fatalf("translation progress %v exceeds ceiling", got)
		}
		previous = got
	}
}

func TestTargetLanguages(t *testing.T) {
	cases := []struct {
		name      string
		languages []string
		want      []string
	}{
		{name: "primary only", languages: []string{"en"}, want: nil},
		{name: "simple targets", languages: []string{"en", "de", "fr"}, want: []string{"de", "fr"}},
		{name: "primary repeated", languages: []string{"en", "en", "de"}, want: []string{"de"}},
		{name: "duplicate target", languages: []string{"en", "de", "de", "fr"}, want: []string{"de", "fr"}},
		{name: "empty", languages: nil, want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := targetLanguages(tc.languages)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("targetLanguages(%v) = %v, want %v", tc.languages, got, tc.want)
			}
		})
	}
}

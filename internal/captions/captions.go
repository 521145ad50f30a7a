// Package captions builds and validates WebVTT caption documents from the
// segment sets extracted for a video.
package captions

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asticode/go-astisub"

	"reeldocs/internal/store"
)

// ErrEmptyDocument indicates a caption document with no cues.
var ErrEmptyDocument = errors.New("caption document has no cues")

// Build renders ordered segments as a WebVTT document. Each segment becomes
// one cue spanning its start and end times, carrying its spoken content.
func Build(segments []store.Segment) (string, error) {
	if len(segments) == 0 {
		return "", ErrEmptyDocument
	}

	subs := astisub.NewSubtitles()
	for _, segment := range segments {
		if segment.EndTime < segment.StartTime {
			return "", fmt.Errorf("segment %d ends before it starts", segment.OrderIndex)
		}
		item := &astisub.Item{
			StartAt: secondsToDuration(segment.StartTime),
			EndAt:   secondsToDuration(segment.EndTime),
		}
		for _, line := range strings.Split(segment.SpokenContent, "\n") {
			item.Lines = append(item.Lines, astisub.Line{
				Items: []astisub.LineItem{{Text: line}},
			})
		}
		subs.Items = append(subs.Items, item)
	}

	var buf bytes.Buffer
	if err := subs.WriteToWebVTT(&buf); err != nil {
		return "", fmt.Errorf("write webvtt: %w", err)
	}
	return buf.String(), nil
}

// Parse reads a WebVTT document into subtitle items.
func Parse(document string) (*astisub.Subtitles, error) {
	subs, err := astisub.ReadFromWebVTT(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("parse webvtt: %w", err)
	}
	return subs, nil
}

// Validate checks that a translated caption document is well formed and
// non-empty. Translation output that fails here is discarded in favor of the
// source-language document.
func Validate(document string) error {
	subs, err := Parse(document)
	if err != nil {
		return err
	}
	if len(subs.Items) == 0 {
		return ErrEmptyDocument
	}
	return nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

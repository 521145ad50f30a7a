package gemini

import (
	"encoding/json"
	"fmt"

	"reeldocs/internal/services"
)

// DecodeSegments parses a segment-extraction response. The model is asked for
// a bare array but sometimes wraps it in an object, so both shapes parse.
func DecodeSegments(text string) ([]Segment, error) {
	cleaned := StripControlBytes(stripCodeFence(text))

	var segments []Segment
	if err := json.Unmarshal([]byte(cleaned), &segments); err != nil {
		var wrapped struct {
			Segments []Segment `json:"segments"`
		}
		if err2 := json.Unmarshal([]byte(cleaned), &wrapped); err2 != nil || len(wrapped.Segments) == 0 {
			return nil, services.Wrap(services.ErrValidation, "gemini", "extract",
				"response is not a segment array", err)
		}
		segments = wrapped.Segments
	}
	if len(segments) == 0 {
		return nil, services.Wrap(services.ErrValidation, "gemini", "extract",
			"response contains no segments", nil)
	}
	for i, segment := range segments {
		if segment.EndTime < segment.StartTime {
			return nil, services.Wrap(services.ErrValidation, "gemini", "extract",
				fmt.Sprintf("segment %d ends before it starts", i), nil)
		}
	}
	return segments, nil
}

// DecodeGeneratedDoc parses a documentation-generation response.
func DecodeGeneratedDoc(text string) (*GeneratedDoc, error) {
	cleaned := StripControlBytes(stripCodeFence(text))

	var doc GeneratedDoc
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, services.Wrap(services.ErrValidation, "gemini", "generate",
			"response is not a documentation object", err)
	}
	if len(doc.Chapters) == 0 {
		return nil, services.Wrap(services.ErrValidation, "gemini", "generate",
			"response contains no chapters", nil)
	}
	return &doc, nil
}

package gemini

import (
	"context"
	"io"
)

// Segment is one logical time-slice of an analyzed video, as returned by the
// video-understanding model.
type Segment struct {
	StartTime     float64 `json:"start_time"`
	EndTime       float64 `json:"end_time"`
	SpokenContent string  `json:"spoken_content"`
	VisualContext string  `json:"visual_context"`
	Topic         string  `json:"topic,omitempty"`
}

// GeneratedSection is one section of a generated chapter. Content is markdown
// that may embed [video:MM:SS] references.
type GeneratedSection struct {
	Heading      string `json:"heading"`
	Content      string `json:"content"`
	TimestampRef string `json:"timestamp_ref,omitempty"`
}

// GeneratedChapter groups generated sections under a chapter title.
type GeneratedChapter struct {
	Title    string             `json:"title"`
	Sections []GeneratedSection `json:"sections"`
}

// GeneratedDoc is the full documentation structure produced for one video.
type GeneratedDoc struct {
	Title    string             `json:"title"`
	Chapters []GeneratedChapter `json:"chapters"`
}

// UploadedFile identifies a video the AI service has finished processing.
type UploadedFile struct {
	URI      string
	MIMEType string
}

// Service is the AI surface the pipeline depends on.
type Service interface {
	// UploadVideo streams a video to the AI service and waits, with a
	// bounded poll, until the service has finished processing it.
	UploadVideo(ctx context.Context, source io.Reader) (*UploadedFile, error)
	// ExtractSegments analyzes an uploaded video into ordered segments.
	ExtractSegments(ctx context.Context, file *UploadedFile) ([]Segment, error)
	// GenerateDoc produces structured documentation from extracted segments.
	GenerateDoc(ctx context.Context, segments []Segment) (*GeneratedDoc, error)
	// TranslateText translates prose into the target language.
	TranslateText(ctx context.Context, text, targetLanguage string) (string, error)
	// TranslateDocument translates a content-tree JSON document, preserving
	// structure and translating only natural-language text fields.
	TranslateDocument(ctx context.Context, contentJSON, targetLanguage string) (string, error)
	// TranslateCaptions translates a WebVTT document, keeping timestamps.
	TranslateCaptions(ctx context.Context, vtt, targetLanguage string) (string, error)
}

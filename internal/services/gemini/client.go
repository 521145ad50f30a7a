package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"reeldocs/internal/config"
	"reeldocs/internal/logging"
	"reeldocs/internal/services"
)

const videoMIMEType = "video/mp4"

// Client talks to the Gemini API. It holds three model handles: the main
// model with JSON responses for extraction and generation, the translation
// model for plain text, and a JSON-mode translation model for documents.
type Client struct {
	client        *genai.Client
	docModel      *genai.GenerativeModel
	textModel     *genai.GenerativeModel
	jsonModel     *genai.GenerativeModel
	logger        *slog.Logger
	audience      string
	pollInterval  time.Duration
	pollMaxTries  int
	requestWindow time.Duration
	retryAttempts int
	retryBase     time.Duration
	segmentMin    int
	segmentMax    int
}

var _ Service = (*Client)(nil)

// NewClient creates a Gemini client from configuration. The API key travels
// through the library's own option so header injection keeps working.
func NewClient(ctx context.Context, cfg config.Gemini, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "gemini", "init", "api key is empty", nil)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	docModel := client.GenerativeModel(cfg.Model)
	docModel.ResponseMIMEType = "application/json"

	textModel := client.GenerativeModel(cfg.TranslationModel)

	jsonModel := client.GenerativeModel(cfg.TranslationModel)
	jsonModel.ResponseMIMEType = "application/json"

	return &Client{
		client:        client,
		docModel:      docModel,
		textModel:     textModel,
		jsonModel:     jsonModel,
		logger:        logging.NewComponentLogger(logger, "gemini"),
		audience:      cfg.DocAudience,
		pollInterval:  time.Duration(cfg.ProcessingPollInterval) * time.Second,
		pollMaxTries:  cfg.ProcessingPollMaxTries,
		requestWindow: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		retryAttempts: cfg.RetryMaxAttempts,
		retryBase:     time.Duration(cfg.RetryBaseDelaySeconds) * time.Second,
		segmentMin:    cfg.SegmentMinSeconds,
		segmentMax:    cfg.SegmentMaxSeconds,
	}, nil
}

// Close releases the underlying API client.
func (c *Client) Close() error {
	return c.client.Close()
}

// UploadVideo streams the video to the file API and polls until processing
// finishes. The poll is bounded; exceeding it yields a timeout-tagged error
// so callers can distinguish a stuck upload from a failed one.
func (c *Client) UploadVideo(ctx context.Context, source io.Reader) (*UploadedFile, error) {
	file, err := c.client.UploadFile(ctx, "", source, &genai.UploadFileOptions{MIMEType: videoMIMEType})
	if err != nil {
		return nil, classifyError("upload", err)
	}
	c.logger.Info("video uploaded", logging.String("file", file.Name))

	tries := 0
	for file.State == genai.FileStateProcessing {
		if tries >= c.pollMaxTries {
			return nil, services.Wrap(services.ErrTimeout, "gemini", "upload",
				fmt.Sprintf("file %s still processing after %d checks", file.Name, tries), nil)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
		tries++
		file, err = c.client.GetFile(ctx, file.Name)
		if err != nil {
			return nil, classifyError("upload", err)
		}
	}

	return checkProcessedFile(file)
}

// checkProcessedFile accepts only files that finished in the active state.
// Failed, unspecified, or any other terminal state is unusable for prompting.
func checkProcessedFile(file *genai.File) (*UploadedFile, error) {
	if file.State != genai.FileStateActive {
		return nil, services.Wrap(services.ErrExternalService, "gemini", "upload",
			fmt.Sprintf("file %s finished in state %d, not active", file.Name, file.State), nil)
	}
	return &UploadedFile{URI: file.URI, MIMEType: file.MIMEType}, nil
}

// ExtractSegments asks the model to split the uploaded video into logical
// segments with transcription and visual context.
func (c *Client) ExtractSegments(ctx context.Context, file *UploadedFile) ([]Segment, error) {
	if file == nil || file.URI == "" {
		return nil, services.Wrap(services.ErrValidation, "gemini", "extract", "no uploaded file", nil)
	}
	text, err := c.generate(ctx, "extract", c.docModel,
		genai.FileData{MIMEType: file.MIMEType, URI: file.URI},
		genai.Text(extractionPrompt(c.segmentMin, c.segmentMax)),
	)
	if err != nil {
		return nil, err
	}
	return DecodeSegments(text)
}

// GenerateDoc produces the structured documentation object for the segments.
func (c *Client) GenerateDoc(ctx context.Context, segments []Segment) (*GeneratedDoc, error) {
	if len(segments) == 0 {
		return nil, services.Wrap(services.ErrValidation, "gemini", "generate", "no segments to document", nil)
	}
	segmentsJSON, err := json.MarshalIndent(segments, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode segments: %w", err)
	}
	text, err := c.generate(ctx, "generate", c.docModel,
		genai.Text(docGenerationPrompt(c.audience, string(segmentsJSON))),
	)
	if err != nil {
		return nil, err
	}
	return DecodeGeneratedDoc(text)
}

// TranslateText translates prose, preserving formatting and timestamp markers.
func (c *Client) TranslateText(ctx context.Context, text, targetLanguage string) (string, error) {
	out, err := c.generate(ctx, "translate-text", c.textModel,
		genai.Text(textTranslationPrompt(targetLanguage, text)),
	)
	if err != nil {
		return "", err
	}
	return out, nil
}

// TranslateDocument translates a content-tree JSON document while preserving
// its structure.
func (c *Client) TranslateDocument(ctx context.Context, contentJSON, targetLanguage string) (string, error) {
	out, err := c.generate(ctx, "translate-doc", c.jsonModel,
		genai.Text(documentTranslationPrompt(targetLanguage, contentJSON)),
	)
	if err != nil {
		return "", err
	}
	return StripControlBytes(stripCodeFence(out)), nil
}

// TranslateCaptions translates a WebVTT document, keeping timestamps intact.
func (c *Client) TranslateCaptions(ctx context.Context, vtt, targetLanguage string) (string, error) {
	out, err := c.generate(ctx, "translate-captions", c.textModel,
		genai.Text(captionTranslationPrompt(targetLanguage, vtt)),
	)
	if err != nil {
		return "", err
	}
	return stripCodeFence(out), nil
}

// generate runs one model call with a per-request deadline, retrying
// transient failures with doubling backoff.
func (c *Client) generate(ctx context.Context, operation string, model *genai.GenerativeModel, parts ...genai.Part) (string, error) {
	var lastErr error
	delay := c.retryBase

	for attempt := 0; attempt < c.retryAttempts; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying model call",
				logging.String("operation", operation),
				logging.Int("attempt", attempt+1),
				logging.Error(lastErr))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		reqCtx, cancel := context.WithTimeout(ctx, c.requestWindow)
		resp, err := model.GenerateContent(reqCtx, parts...)
		cancel()
		if err != nil {
			lastErr = classifyError(operation, err)
			if errors.Is(lastErr, services.ErrTransient) || errors.Is(lastErr, services.ErrTimeout) {
				continue
			}
			return "", lastErr
		}

		text, err := extractResponseText(resp)
		if err != nil {
			return "", services.Wrap(services.ErrExternalService, "gemini", operation, "empty response", err)
		}
		return text, nil
	}
	return "", lastErr
}

func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("no response received")
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("no candidates returned")
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			continue
		}
		var combined string
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				combined += string(text)
			}
		}
		if combined != "" {
			return combined, nil
		}
	}
	return "", errors.New("no text parts in response")
}

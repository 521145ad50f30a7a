package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Wire shapes returned by the daemon API.
type projectDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type videoDoc struct {
	ID          string   `json:"id"`
	ProjectID   string   `json:"project_id"`
	Title       string   `json:"title"`
	StoragePath string   `json:"storage_path"`
	Status      string   `json:"status"`
	Languages   []string `json:"caption_languages"`
}

type jobDoc struct {
	ID           string     `json:"id"`
	VideoID      string     `json:"video_id"`
	ProjectID    string     `json:"project_id"`
	Status       string     `json:"status"`
	Step         string     `json:"step"`
	StepMessage  string     `json:"step_message"`
	Progress     float64    `json:"progress"`
	Languages    []string   `json:"languages"`
	ErrorMessage string     `json:"error_message"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

type statusDoc struct {
	Jobs map[string]int `json:"jobs"`
}

type uploadTargetDoc struct {
	VideoID     string `json:"video_id"`
	StoragePath string `json:"storage_path"`
	UploadURL   string `json:"upload_url"`
}

type apiClient struct {
	base  string
	token string
	http  *http.Client
}

func newAPIClient(address, token string) (*apiClient, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, errors.New("daemon API address not configured; set paths.api_bind or pass --address")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	return &apiClient{
		base:  strings.TrimRight(trimmed, "/"),
		token: token,
		http:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *apiClient) do(ctx context.Context, method, path string, body, into any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("connect to daemon at %s: %w (is reeldocsd running?)", c.base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var failure struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&failure); decodeErr == nil && failure.Error != "" {
			return fmt.Errorf("daemon: %s", failure.Error)
		}
		return fmt.Errorf("daemon returned %s", resp.Status)
	}
	if into == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *apiClient) get(ctx context.Context, path string, into any) error {
	return c.do(ctx, http.MethodGet, path, nil, into)
}

func (c *apiClient) post(ctx context.Context, path string, body, into any) error {
	return c.do(ctx, http.MethodPost, path, body, into)
}

func (c *apiClient) status(ctx context.Context) (statusDoc, error) {
	var doc statusDoc
	err := c.get(ctx, "/api/status", &doc)
	return doc, err
}

func (c *apiClient) job(ctx context.Context, id string) (jobDoc, error) {
	var doc jobDoc
	err := c.get(ctx, "/api/jobs/"+id, &doc)
	return doc, err
}

func (c *apiClient) retryJob(ctx context.Context, id string) (string, error) {
	var doc struct {
		JobID string `json:"job_id"`
	}
	err := c.post(ctx, "/api/jobs/"+id+"/retry", nil, &doc)
	return doc.JobID, err
}

func (c *apiClient) projectJobs(ctx context.Context, projectID string, active bool, limit int) ([]jobDoc, error) {
	path := "/api/projects/" + projectID + "/jobs"
	if active {
		path += "?active=1"
	} else if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	var doc struct {
		Jobs []jobDoc `json:"jobs"`
	}
	err := c.get(ctx, path, &doc)
	return doc.Jobs, err
}

func (c *apiClient) createProject(ctx context.Context, name string) (projectDoc, error) {
	var doc projectDoc
	err := c.post(ctx, "/api/projects", map[string]string{"name": name}, &doc)
	return doc, err
}

func (c *apiClient) video(ctx context.Context, id string) (videoDoc, error) {
	var doc videoDoc
	err := c.get(ctx, "/api/videos/"+id, &doc)
	return doc, err
}

func (c *apiClient) registerVideo(ctx context.Context, projectID, title, storagePath string) (videoDoc, error) {
	var doc videoDoc
	err := c.post(ctx, "/api/videos", map[string]string{
		"project_id":   projectID,
		"title":        title,
		"storage_path": storagePath,
	}, &doc)
	return doc, err
}

func (c *apiClient) uploadURL(ctx context.Context, projectID, title string) (uploadTargetDoc, error) {
	var doc uploadTargetDoc
	err := c.post(ctx, "/api/videos/upload-url", map[string]string{
		"project_id": projectID,
		"title":      title,
	}, &doc)
	return doc, err
}

func (c *apiClient) downloadURL(ctx context.Context, videoID string) (string, error) {
	var doc struct {
		DownloadURL string `json:"download_url"`
	}
	err := c.get(ctx, "/api/videos/"+videoID+"/download-url", &doc)
	return doc.DownloadURL, err
}

func (c *apiClient) processVideo(ctx context.Context, videoID string, languages []string) (string, error) {
	var doc struct {
		JobID string `json:"job_id"`
	}
	err := c.post(ctx, "/api/videos/"+videoID+"/process", map[string]any{
		"languages": languages,
	}, &doc)
	return doc.JobID, err
}

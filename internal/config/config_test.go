package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reeldocs/internal/config"
)

func validRaw(t *testing.T) string {
	t.Helper()
	return `
[storage]
endpoint = "localhost:9000"
access_key_id = "minio"
secret_access_key = "minio123"

[gemini]
api_key = "test-key"
`
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, validRaw(t))

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Fatalf("Gemini.Model = %q, want default", cfg.Gemini.Model)
	}
	if cfg.Gemini.ProcessingPollInterval != 5 {
		t.Fatalf("ProcessingPollInterval = %d, want 5", cfg.Gemini.ProcessingPollInterval)
	}
	if cfg.Gemini.ProcessingPollMaxTries != 120 {
		t.Fatalf("ProcessingPollMaxTries = %d, want 120", cfg.Gemini.ProcessingPollMaxTries)
	}
	if cfg.Workflow.JobPollInterval != 2 {
		t.Fatalf("JobPollInterval = %d, want 2", cfg.Workflow.JobPollInterval)
	}
	if cfg.Storage.SignedURLTTL != 3600 {
		t.Fatalf("SignedURLTTL = %d, want 3600", cfg.Storage.SignedURLTTL)
	}
}

func TestLoadRequiresGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	path := writeConfig(t, `
[storage]
endpoint = "localhost:9000"
access_key_id = "minio"
secret_access_key = "minio123"
`)

	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected error for missing gemini.api_key")
	}
	if !strings.Contains(err.Error(), "gemini.api_key") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadGeminiKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	path := writeConfig(t, `
[storage]
endpoint = "localhost:9000"
access_key_id = "minio"
secret_access_key = "minio123"
`)

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Gemini.APIKey != "env-key" {
		t.Fatalf("APIKey = %q, want env-key", cfg.Gemini.APIKey)
	}
}

func TestLoadRejectsBadLogging(t *testing.T) {
	path := writeConfig(t, validRaw(t)+`
[logging]
format = "xml"
`)

	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging.format error, got %v", err)
	}
}

func TestLoadRejectsInvertedSegmentBounds(t *testing.T) {
	path := writeConfig(t, validRaw(t)+`
segment_min_seconds = 120
segment_max_seconds = 30
`)

	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "segment_min_seconds") {
		t.Fatalf("expected segment bounds error, got %v", err)
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := writeConfig(t, "# existing\n")
	if _, err := config.WriteSample(path); err == nil {
		t.Fatal("expected WriteSample to refuse overwriting an existing file")
	}
}

package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGemini(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGemini() error {
	if c.Gemini.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/reeldocs/config.toml"
		}
		return fmt.Errorf("gemini.api_key is required. Set GEMINI_API_KEY env var or edit %s (create with 'reeldocs config init')", defaultPath)
	}
	if c.Gemini.SegmentMinSeconds >= c.Gemini.SegmentMaxSeconds {
		return errors.New("gemini.segment_min_seconds must be less than gemini.segment_max_seconds")
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.Endpoint == "" {
		return errors.New("storage.endpoint must be set")
	}
	if c.Storage.AccessKeyID == "" || c.Storage.SecretAccessKey == "" {
		return errors.New("storage credentials must be set (storage.access_key_id / storage.secret_access_key or REELDOCS_STORAGE_* env vars)")
	}
	if c.Storage.Bucket == "" {
		return errors.New("storage.bucket must be set")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.JobPollInterval <= 0 {
		return errors.New("workflow.job_poll_interval must be positive")
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		return errors.New("workflow.error_retry_interval must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

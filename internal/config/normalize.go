package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStorage()
	c.normalizeGemini()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv("REELDOCS_API_TOKEN"); ok {
			c.Paths.APIToken = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeStorage() {
	c.Storage.Endpoint = strings.TrimSpace(c.Storage.Endpoint)
	c.Storage.Bucket = strings.TrimSpace(c.Storage.Bucket)
	if c.Storage.Bucket == "" {
		c.Storage.Bucket = defaultStorageBucket
	}
	if c.Storage.AccessKeyID == "" {
		if value, ok := os.LookupEnv("REELDOCS_STORAGE_ACCESS_KEY"); ok {
			c.Storage.AccessKeyID = strings.TrimSpace(value)
		}
	}
	if c.Storage.SecretAccessKey == "" {
		if value, ok := os.LookupEnv("REELDOCS_STORAGE_SECRET_KEY"); ok {
			c.Storage.SecretAccessKey = strings.TrimSpace(value)
		}
	}
	if c.Storage.SignedURLTTL <= 0 {
		c.Storage.SignedURLTTL = defaultSignedURLTTL
	}
}

func (c *Config) normalizeGemini() {
	if c.Gemini.APIKey == "" {
		if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
			c.Gemini.APIKey = strings.TrimSpace(value)
		}
	}
	c.Gemini.Model = strings.TrimSpace(c.Gemini.Model)
	if c.Gemini.Model == "" {
		c.Gemini.Model = defaultGeminiModel
	}
	c.Gemini.TranslationModel = strings.TrimSpace(c.Gemini.TranslationModel)
	if c.Gemini.TranslationModel == "" {
		c.Gemini.TranslationModel = c.Gemini.Model
	}
	if c.Gemini.ProcessingPollInterval <= 0 {
		c.Gemini.ProcessingPollInterval = defaultProcessingPollInterval
	}
	if c.Gemini.ProcessingPollMaxTries <= 0 {
		c.Gemini.ProcessingPollMaxTries = defaultProcessingPollMaxTries
	}
	if c.Gemini.RequestTimeoutSeconds <= 0 {
		c.Gemini.RequestTimeoutSeconds = defaultRequestTimeoutSeconds
	}
	if c.Gemini.RetryMaxAttempts <= 0 {
		c.Gemini.RetryMaxAttempts = defaultRetryMaxAttempts
	}
	if c.Gemini.RetryBaseDelaySeconds <= 0 {
		c.Gemini.RetryBaseDelaySeconds = defaultRetryBaseDelaySeconds
	}
	if c.Gemini.SegmentMinSeconds <= 0 {
		c.Gemini.SegmentMinSeconds = defaultSegmentMinSeconds
	}
	if c.Gemini.SegmentMaxSeconds <= 0 {
		c.Gemini.SegmentMaxSeconds = defaultSegmentMaxSeconds
	}
	c.Gemini.DocAudience = strings.ToLower(strings.TrimSpace(c.Gemini.DocAudience))
	if c.Gemini.DocAudience == "" {
		c.Gemini.DocAudience = defaultDocAudience
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.JobPollInterval <= 0 {
		c.Workflow.JobPollInterval = defaultJobPollInterval
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		c.Workflow.ErrorRetryInterval = defaultErrorRetryInterval
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

package config

const (
	defaultDataDir                = "~/.local/share/reeldocs"
	defaultLogDir                 = "~/.local/share/reeldocs/logs"
	defaultAPIBind                = "127.0.0.1:7511"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultGeminiModel            = "gemini-2.5-flash"
	defaultProcessingPollInterval = 5
	defaultProcessingPollMaxTries = 120
	defaultRequestTimeoutSeconds  = 120
	defaultRetryMaxAttempts       = 3
	defaultRetryBaseDelaySeconds  = 2
	defaultSegmentMinSeconds      = 30
	defaultSegmentMaxSeconds      = 120
	defaultSignedURLTTL           = 3600
	defaultDocAudience            = "developers"
	defaultStorageBucket          = "videos"
	defaultJobPollInterval        = 2
	defaultErrorRetryInterval     = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Storage: Storage{
			Bucket:       defaultStorageBucket,
			SignedURLTTL: defaultSignedURLTTL,
		},
		Gemini: Gemini{
			Model:                  defaultGeminiModel,
			TranslationModel:       defaultGeminiModel,
			ProcessingPollInterval: defaultProcessingPollInterval,
			ProcessingPollMaxTries: defaultProcessingPollMaxTries,
			RequestTimeoutSeconds:  defaultRequestTimeoutSeconds,
			RetryMaxAttempts:       defaultRetryMaxAttempts,
			RetryBaseDelaySeconds:  defaultRetryBaseDelaySeconds,
			SegmentMinSeconds:      defaultSegmentMinSeconds,
			SegmentMaxSeconds:      defaultSegmentMaxSeconds,
			DocAudience:            defaultDocAudience,
		},
		Workflow: Workflow{
			JobPollInterval:    defaultJobPollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

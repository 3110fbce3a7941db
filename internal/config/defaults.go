package config

const (
	defaultStagingDir = "~/.local/share/shelfscan/staging"
	defaultDataDir    = "~/.local/share/shelfscan/data"
	defaultLogDir     = "~/.local/share/shelfscan/logs"

	defaultVisionBaseURL        = "https://api.openai.com/v1/chat/completions"
	defaultVisionModel          = "gpt-4o-mini"
	defaultVisionTimeoutSeconds = 120
	defaultVisionDetail         = "high"

	defaultWhisperBinary   = "whisper-cli"
	defaultWhisperLanguage = "en"

	defaultBatchSize            = 5
	defaultFrameInterval        = 1.0
	defaultNarrationWindow      = 0.5
	defaultCurrency             = "USD"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
		},
		Vision: Vision{
			BaseURL:        defaultVisionBaseURL,
			Model:          defaultVisionModel,
			TimeoutSeconds: defaultVisionTimeoutSeconds,
			Detail:         defaultVisionDetail,
		},
		Whisper: Whisper{
			Binary:   defaultWhisperBinary,
			Language: defaultWhisperLanguage,
		},
		Analysis: Analysis{
			BatchSize:            defaultBatchSize,
			FrameIntervalSeconds: defaultFrameInterval,
			NarrationWindow:      defaultNarrationWindow,
			Currency:             defaultCurrency,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

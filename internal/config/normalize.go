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
	if err := c.normalizeVision(); err != nil {
		return err
	}
	if err := c.normalizeWhisper(); err != nil {
		return err
	}
	c.normalizeAnalysis()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeVision() error {
	if key := os.Getenv("SHELFSCAN_VISION_API_KEY"); key != "" && strings.TrimSpace(c.Vision.APIKey) == "" {
		c.Vision.APIKey = key
	}
	c.Vision.APIKey = strings.TrimSpace(c.Vision.APIKey)
	c.Vision.BaseURL = strings.TrimSpace(c.Vision.BaseURL)
	if c.Vision.BaseURL == "" {
		c.Vision.BaseURL = defaultVisionBaseURL
	}
	c.Vision.Model = strings.TrimSpace(c.Vision.Model)
	if c.Vision.Model == "" {
		c.Vision.Model = defaultVisionModel
	}
	if c.Vision.TimeoutSeconds <= 0 {
		c.Vision.TimeoutSeconds = defaultVisionTimeoutSeconds
	}
	c.Vision.Detail = strings.ToLower(strings.TrimSpace(c.Vision.Detail))
	if c.Vision.Detail == "" {
		c.Vision.Detail = defaultVisionDetail
	}
	return nil
}

func (c *Config) normalizeWhisper() error {
	var err error
	c.Whisper.Binary = strings.TrimSpace(c.Whisper.Binary)
	if c.Whisper.Binary == "" {
		c.Whisper.Binary = defaultWhisperBinary
	}
	if c.Whisper.ModelPath != "" {
		if c.Whisper.ModelPath, err = expandPath(c.Whisper.ModelPath); err != nil {
			return fmt.Errorf("whisper.model_path: %w", err)
		}
	}
	c.Whisper.Language = strings.TrimSpace(c.Whisper.Language)
	if c.Whisper.Language == "" {
		c.Whisper.Language = defaultWhisperLanguage
	}
	if c.Whisper.Threads < 0 {
		c.Whisper.Threads = 0
	}
	return nil
}

func (c *Config) normalizeAnalysis() {
	if c.Analysis.BatchSize <= 0 {
		c.Analysis.BatchSize = defaultBatchSize
	}
	if c.Analysis.FrameIntervalSeconds <= 0 {
		c.Analysis.FrameIntervalSeconds = defaultFrameInterval
	}
	if c.Analysis.NarrationWindow <= 0 {
		c.Analysis.NarrationWindow = defaultNarrationWindow
	}
	if strings.TrimSpace(c.Analysis.Currency) == "" {
		c.Analysis.Currency = defaultCurrency
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

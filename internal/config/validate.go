package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateVision(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateVision() error {
	if c.Vision.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/shelfscan/config.toml"
		}
		return fmt.Errorf("vision.api_key is required. Set SHELFSCAN_VISION_API_KEY env var or edit %s (create with 'shelfscan config init')", defaultPath)
	}
	switch c.Vision.Detail {
	case "low", "high", "auto":
	default:
		return fmt.Errorf("vision.detail must be one of low, high, auto (got %q)", c.Vision.Detail)
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.BatchSize > 20 {
		return errors.New("analysis.batch_size must be 20 or fewer frames per request")
	}
	if c.Analysis.FrameIntervalSeconds > 60 {
		return errors.New("analysis.frame_interval_seconds must be 60 or less")
	}
	if c.Analysis.NarrationWindow > 10 {
		return errors.New("analysis.narration_window_seconds must be 10 or less")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}

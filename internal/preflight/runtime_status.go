package preflight

import (
	"context"
	"strings"

	"shelfscan/internal/config"
)

// CheckVisionFromConfig evaluates vision API status from config and connectivity.
func CheckVisionFromConfig(cfg *config.Config) Result {
	const name = "Vision API"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if strings.TrimSpace(cfg.Vision.APIKey) == "" {
		return Result{Name: name, Detail: "Missing API key"}
	}
	check := CheckVision(context.Background(), cfg.Vision)
	if check.Passed {
		return Result{Name: name, Passed: true, Detail: check.Detail}
	}
	return Result{Name: name, Detail: check.Detail}
}

// CheckWhisperFromConfig evaluates speech recognition readiness from config.
// Transcription is soft-optional, so a missing model passes with a note
// explaining that narration will be skipped.
func CheckWhisperFromConfig(cfg *config.Config) Result {
	const name = "Whisper model"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if strings.TrimSpace(cfg.Whisper.ModelPath) == "" {
		return Result{Name: name, Passed: true, Detail: "Not configured (narration disabled)"}
	}
	check := CheckWhisperModel(cfg.Whisper.ModelPath)
	if check.Passed {
		return Result{Name: name, Passed: true, Detail: check.Detail}
	}
	return Result{Name: name, Detail: check.Detail}
}

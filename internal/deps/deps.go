// Package deps verifies the external tools the analysis pipeline shells out
// to: the ffmpeg binaries for frame and audio extraction and the whisper.cpp
// speech stack for narration transcription.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Requirement names one external dependency. Command is a binary name or
// path for CheckBinary, or a model file path for CheckWhisperModel.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the outcome of checking one Requirement.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

func unavailable(req Requirement, detail string) Status {
	return Status{Requirement: req, Detail: detail}
}

// CheckBinary resolves one binary requirement through PATH lookup.
func CheckBinary(req Requirement) Status {
	req.Command = strings.TrimSpace(req.Command)
	req.Description = strings.TrimSpace(req.Description)
	if req.Command == "" {
		return unavailable(req, "command not configured")
	}
	if _, err := exec.LookPath(req.Command); err != nil {
		return unavailable(req, fmt.Sprintf("binary %q not found", req.Command))
	}
	return Status{Requirement: req, Available: true}
}

// CheckBinaries resolves each requirement in order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, CheckBinary(req))
	}
	return results
}

// CheckWhisperModel reports whether the configured speech-recognition model
// exists as a regular file. An empty path is reported as unavailable but
// optional so transcription can degrade gracefully.
func CheckWhisperModel(modelPath string) Status {
	req := Requirement{
		Name:        "Whisper model",
		Command:     strings.TrimSpace(modelPath),
		Description: "Speech recognition model for narration transcription",
		Optional:    true,
	}
	if req.Command == "" {
		return unavailable(req, "model path not configured")
	}
	info, err := os.Stat(req.Command)
	switch {
	case os.IsNotExist(err):
		return unavailable(req, fmt.Sprintf("model file %q not found", req.Command))
	case err != nil:
		return unavailable(req, fmt.Sprintf("model file %q: %v", req.Command, err))
	case info.IsDir():
		return unavailable(req, fmt.Sprintf("model path %q is a directory", req.Command))
	}
	return Status{Requirement: req, Available: true}
}

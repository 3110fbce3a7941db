package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
}

func TestCheckBinariesEmptyCommand(t *testing.T) {
	results := CheckBinaries([]Requirement{{Name: "Blank"}})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Available {
		t.Fatal("expected blank command to be unavailable")
	}
	if results[0].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %s", results[0].Detail)
	}
}

func TestCheckWhisperModel(t *testing.T) {
	tmp := t.TempDir()
	modelPath := filepath.Join(tmp, "ggml-base.bin")
	if err := os.WriteFile(modelPath, []byte("model"), 0o644); err != nil {
		t.Fatalf("write model stub: %v", err)
	}

	status := CheckWhisperModel(modelPath)
	if !status.Available {
		t.Fatalf("expected model to be available, got detail %q", status.Detail)
	}
	if status.Command != modelPath {
		t.Fatalf("expected command %q, got %q", modelPath, status.Command)
	}
}

func TestCheckWhisperModelMissing(t *testing.T) {
	status := CheckWhisperModel(filepath.Join(t.TempDir(), "absent.bin"))
	if status.Available {
		t.Fatal("expected missing model to be unavailable")
	}
	if !status.Optional {
		t.Fatal("expected model check to be optional")
	}
}

func TestCheckWhisperModelUnconfigured(t *testing.T) {
	status := CheckWhisperModel("   ")
	if status.Available {
		t.Fatal("expected unconfigured model to be unavailable")
	}
	if status.Detail != "model path not configured" {
		t.Fatalf("unexpected detail: %s", status.Detail)
	}
}

func TestCheckWhisperModelDirectory(t *testing.T) {
	status := CheckWhisperModel(t.TempDir())
	if status.Available {
		t.Fatal("expected directory path to be unavailable")
	}
}

func TestCheckBinaryTrimsConfiguredCommand(t *testing.T) {
	binDir := t.TempDir()
	stub := filepath.Join(binDir, "ffmpeg")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	status := CheckBinary(Requirement{Name: "FFmpeg", Command: "  " + stub + "  "})
	if !status.Available {
		t.Fatalf("expected stub to resolve, got %#v", status)
	}
	if status.Command != stub {
		t.Fatalf("expected trimmed command %q, got %q", stub, status.Command)
	}
}

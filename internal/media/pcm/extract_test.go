package pcm

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func writeStub(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestExtractWritesWAVAndReportsProgress(t *testing.T) {
	// Emit 2 seconds of silence (64000 bytes of s16le mono 16kHz).
	stub := writeStub(t, "dd if=/dev/zero bs=32000 count=2 2>/dev/null")
	dest := filepath.Join(t.TempDir(), "audio.wav")

	var progress []float64
	extractor := NewExtractor(stub)
	err := extractor.Extract(context.Background(), "input.mov", 1, dest, 2.0, func(f float64) {
		progress = append(progress, f)
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("stat dest: %v", err)
	}
	if info.Size() != wavHeaderSize+64000 {
		t.Fatalf("unexpected size: %d", info.Size())
	}

	if len(progress) == 0 {
		t.Fatal("expected progress callbacks")
	}
	last := 0.0
	for _, f := range progress {
		if f < last {
			t.Fatalf("progress regressed: %v", progress)
		}
		last = f
	}
	if last != 1.0 {
		t.Fatalf("final progress %v, want 1.0", last)
	}
}

func TestExtractUnknownDurationSuppressesProgress(t *testing.T) {
	stub := writeStub(t, "dd if=/dev/zero bs=16000 count=1 2>/dev/null")
	dest := filepath.Join(t.TempDir(), "audio.wav")

	called := false
	extractor := NewExtractor(stub)
	err := extractor.Extract(context.Background(), "input.mov", 0, dest, 0, func(float64) {
		called = true
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if called {
		t.Fatal("progress should be suppressed when duration is unknown")
	}
}

func TestExtractFailureRemovesDestination(t *testing.T) {
	stub := writeStub(t, "echo 'decoder exploded' >&2; exit 1")
	dest := filepath.Join(t.TempDir(), "audio.wav")

	extractor := NewExtractor(stub)
	err := extractor.Extract(context.Background(), "input.mov", 0, dest, 10, nil)
	if err == nil {
		t.Fatal("expected extraction failure")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatalf("destination should be removed after failure, stat: %v", statErr)
	}
}

func TestExtractRejectsNegativeTrackIndex(t *testing.T) {
	extractor := NewExtractor("ffmpeg")
	if err := extractor.Extract(context.Background(), "input.mov", -1, "out.wav", 1, nil); err == nil {
		t.Fatal("expected index validation error")
	}
}

func TestExtractCancellation(t *testing.T) {
	// The stub produces data forever; cancellation must terminate the loop.
	stub := writeStub(t, "while true; do dd if=/dev/zero bs=32000 count=1 2>/dev/null; sleep 0.05; done")
	dest := filepath.Join(t.TempDir(), "audio.wav")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	extractor := NewExtractor(stub)
	go func() {
		done <- extractor.Extract(ctx, "input.mov", 0, dest, 0, nil)
	}()

	cancel()
	if err := <-done; err == nil {
		t.Fatal("expected cancellation error")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatalf("destination should be removed after cancellation, stat: %v", statErr)
	}
}

func TestExtractProgressClampedToOne(t *testing.T) {
	// 3 seconds of audio against a claimed 2 second duration.
	stub := writeStub(t, "dd if=/dev/zero bs=32000 count=3 2>/dev/null")
	dest := filepath.Join(t.TempDir(), "audio.wav")

	var max float64
	extractor := NewExtractor(stub)
	if err := extractor.Extract(context.Background(), "input.mov", 0, dest, 2.0, func(f float64) {
		if f > max {
			max = f
		}
	}); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if max > 1.0 {
		t.Fatalf("progress exceeded 1.0: %v", max)
	}
}

func TestExtractWriteFailureReleasesDecoder(t *testing.T) {
	// A writer whose file handle is already closed fails on the first
	// append while the stub keeps producing, so the decoder goroutine
	// fills the chunk window and blocks mid-send.
	orig := newWAVWriter
	newWAVWriter = func(dest string) (*WAVWriter, error) {
		w, err := NewWAVWriter(dest)
		if err != nil {
			return nil, err
		}
		_ = w.file.Close()
		return w, nil
	}
	defer func() { newWAVWriter = orig }()

	stub := writeStub(t, "while true; do dd if=/dev/zero bs=32000 count=1 2>/dev/null; done")
	dest := filepath.Join(t.TempDir(), "audio.wav")

	before := runtime.NumGoroutine()
	extractor := NewExtractor(stub)
	err := extractor.Extract(context.Background(), "input.mov", 0, dest, 0, nil)
	if err == nil {
		t.Fatal("expected write failure")
	}

	deadline := time.Now().Add(5 * time.Second)
	for runtime.NumGoroutine() > before {
		if time.Now().After(deadline) {
			t.Fatalf("decoder goroutine still running: %d goroutines, started with %d",
				runtime.NumGoroutine(), before)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

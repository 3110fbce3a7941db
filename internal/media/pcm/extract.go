package pcm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

var newWAVWriter = NewWAVWriter

const (
	// chunkBytes is one read unit from the decoder, roughly one second of
	// mono 16 kHz audio.
	chunkBytes = SampleRate * BytesPerSample

	// chunkWindow bounds the number of decoded chunks held in memory between
	// the decoder and the writer. The decoder blocks once the window is full,
	// so memory stays flat for arbitrarily long videos.
	chunkWindow = 2
)

// Extractor pulls the audio track out of a video container and re-encodes it
// to mono 16 kHz s16le PCM in a WAV file.
type Extractor struct {
	binary string
}

// NewExtractor builds an Extractor around the given ffmpeg binary name.
func NewExtractor(binary string) *Extractor {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Extractor{binary: binary}
}

type chunk struct {
	data []byte
}

// Extract decodes audio stream audioIndex of source into dest. durationSeconds
// drives progress reporting; pass 0 (or any non-finite value) when the
// duration is unknown, in which case onProgress is not called and the caller's
// last reported value stands.
//
// The decode side runs as a producer goroutine feeding a bounded channel; the
// consumer appends each buffer to the WAV writer and asks for the next one
// only after the append completes. When the producer runs dry the writer is
// finalized and the loop exits.
func (e *Extractor) Extract(ctx context.Context, source string, audioIndex int, dest string, durationSeconds float64, onProgress func(float64)) error {
	if audioIndex < 0 {
		return fmt.Errorf("pcm extract: invalid audio track index %d", audioIndex)
	}
	if strings.TrimSpace(source) == "" {
		return errors.New("pcm extract: source path required")
	}
	if strings.TrimSpace(dest) == "" {
		return errors.New("pcm extract: destination path required")
	}

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", fmt.Sprintf("0:%d", audioIndex),
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", fmt.Sprint(SampleRate),
		"-f", "s16le",
		"-",
	}
	cmd := commandContext(ctx, e.binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("pcm extract: stdout pipe: %w", err)
	}
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("pcm extract: start %s: %w", e.binary, err)
	}

	writer, err := newWAVWriter(dest)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return err
	}

	chunks := make(chan chunk, chunkWindow)
	readErr := make(chan error, 1)
	go func() {
		defer close(chunks)
		for {
			buf := make([]byte, chunkBytes)
			n, err := io.ReadFull(stdout, buf)
			if n > 0 {
				select {
				case chunks <- chunk{data: buf[:n]}:
				case <-ctx.Done():
					readErr <- ctx.Err()
					return
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					readErr <- nil
				} else {
					readErr <- fmt.Errorf("read decoded audio: %w", err)
				}
				return
			}
		}
	}()

	reportProgress := durationSeconds > 0 && !math.IsInf(durationSeconds, 0) && !math.IsNaN(durationSeconds)
	writeFailed := func(cause error) error {
		_ = writer.Close()
		_ = os.Remove(dest)
		_ = cmd.Process.Kill()
		// The producer may be blocked sending into a full window; draining
		// until the channel closes lets it observe the dead pipe and exit.
		for range chunks {
		}
		_ = cmd.Wait()
		return cause
	}

	for c := range chunks {
		if _, err := writer.Write(c.data); err != nil {
			return writeFailed(fmt.Errorf("pcm extract: append samples: %w", err))
		}
		if reportProgress && onProgress != nil {
			timestamp := float64(writer.DataBytes()) / float64(SampleRate*BytesPerSample)
			fraction := timestamp / durationSeconds
			if fraction > 1 {
				fraction = 1
			}
			onProgress(fraction)
		}
	}

	if err := <-readErr; err != nil {
		return writeFailed(fmt.Errorf("pcm extract: %w", err))
	}
	if err := writer.Close(); err != nil {
		_ = os.Remove(dest)
		_ = cmd.Wait()
		return fmt.Errorf("pcm extract: finalize wav: %w", err)
	}
	if err := cmd.Wait(); err != nil {
		_ = os.Remove(dest)
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("pcm extract: %s: %w: %s", e.binary, err, detail)
		}
		return fmt.Errorf("pcm extract: %s: %w", e.binary, err)
	}
	return nil
}

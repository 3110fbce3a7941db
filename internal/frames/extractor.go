package frames

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// TimestampedFrame is one sampled video frame (JPEG payload) tagged with its
// capture time in seconds from the start of the video.
type TimestampedFrame struct {
	Data      []byte
	Timestamp float64
}

// Extractor samples a video into evenly spaced JPEG frames.
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

// Extract samples source at one frame per intervalSeconds and returns the
// frames in capture order, frame i stamped at i*intervalSeconds. An empty
// result is valid. durationSeconds drives progress estimation; pass 0 when
// unknown, in which case only the final 1.0 is reported.
func (e *Extractor) Extract(ctx context.Context, source string, intervalSeconds float64, durationSeconds float64, onProgress func(float64)) ([]TimestampedFrame, error) {
	if strings.TrimSpace(source) == "" {
		return nil, errors.New("frame extract: source path required")
	}
	if intervalSeconds <= 0 || math.IsInf(intervalSeconds, 0) || math.IsNaN(intervalSeconds) {
		return nil, fmt.Errorf("frame extract: invalid interval %v", intervalSeconds)
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-an",
		"-sn",
		"-dn",
		"-vf", "fps=1/" + strconv.FormatFloat(intervalSeconds, 'g', -1, 64),
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-",
	}
	cmd := commandContext(ctx, e.binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("frame extract: stdout pipe: %w", err)
	}
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("frame extract: start %s: %w", e.binary, err)
	}

	expected := 0
	if durationSeconds > 0 && !math.IsInf(durationSeconds, 0) && !math.IsNaN(durationSeconds) {
		expected = int(durationSeconds/intervalSeconds) + 1
	}

	var extracted []TimestampedFrame
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 32*1024*1024)
	scanner.Split(splitJPEG)
	for scanner.Scan() {
		data := make([]byte, len(scanner.Bytes()))
		copy(data, scanner.Bytes())
		extracted = append(extracted, TimestampedFrame{
			Data:      data,
			Timestamp: float64(len(extracted)) * intervalSeconds,
		})
		if onProgress != nil && expected > 0 {
			fraction := float64(len(extracted)) / float64(expected)
			if fraction > 1 {
				fraction = 1
			}
			onProgress(fraction)
		}
	}
	scanErr := scanner.Err()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("frame extract: %s: %w: %s", e.binary, err, detail)
		}
		return nil, fmt.Errorf("frame extract: %s: %w", e.binary, err)
	}
	if scanErr != nil {
		return nil, fmt.Errorf("frame extract: read frame stream: %w", scanErr)
	}

	if onProgress != nil {
		onProgress(1.0)
	}
	return extracted, nil
}

// splitJPEG tokenizes a concatenated MJPEG stream into individual images. A
// frame spans the SOI marker (ff d8) through the matching EOI marker (ff d9);
// anything before the first SOI is discarded.
func splitJPEG(data []byte, atEOF bool) (int, []byte, error) {
	soi := bytes.Index(data, []byte{0xff, 0xd8})
	if soi < 0 {
		if atEOF {
			return len(data), nil, nil
		}
		return 0, nil, nil
	}
	eoi := bytes.Index(data[soi+2:], []byte{0xff, 0xd9})
	if eoi < 0 {
		if atEOF {
			return 0, nil, errors.New("truncated jpeg frame")
		}
		return soi, nil, nil
	}
	end := soi + 2 + eoi + 2
	return end, data[soi:end], nil
}

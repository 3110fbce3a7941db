package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"shelfscan/internal/logging"
	"shelfscan/internal/media/ffprobe"
	"shelfscan/internal/services"
)

// Progress milestones across a successful run. Extraction progress is mapped
// linearly into [0.1, 0.5] of the overall transcription phase.
const (
	progressTrackFound   = 0.05
	progressExtractStart = 0.1
	progressExtractEnd   = 0.5
	progressExtractDone  = 0.6
	progressComplete     = 1.0
)

// AudioExtractor pulls a mono 16 kHz PCM track out of a video container.
// pcm.Extractor is the production implementation.
type AudioExtractor interface {
	Extract(ctx context.Context, source string, audioIndex int, dest string, durationSeconds float64, onProgress func(float64)) error
}

// Transcriber converts a video's narration track into a time-aligned
// transcript.
type Transcriber struct {
	probe      func(ctx context.Context, source string) (ffprobe.Result, error)
	extractor  AudioExtractor
	recognizer Recognizer
	stagingDir string
	logger     *slog.Logger
}

// Option customizes a Transcriber.
type Option func(*Transcriber)

// WithProber overrides container inspection (used in tests).
func WithProber(probe func(ctx context.Context, source string) (ffprobe.Result, error)) Option {
	return func(t *Transcriber) {
		if probe != nil {
			t.probe = probe
		}
	}
}

// New constructs a Transcriber. stagingDir hosts the intermediate WAV file;
// it must exist and be writable.
func New(probeBinary string, extractor AudioExtractor, recognizer Recognizer, stagingDir string, logger *slog.Logger, opts ...Option) *Transcriber {
	t := &Transcriber{
		probe: func(ctx context.Context, source string) (ffprobe.Result, error) {
			return ffprobe.Inspect(ctx, probeBinary, source)
		},
		extractor:  extractor,
		recognizer: recognizer,
		stagingDir: stagingDir,
		logger:     logging.NewComponentLogger(logger, "transcriber"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcribe extracts and recognizes the narration of the video at source.
//
// A video without an audio track is not an error: the empty result is
// returned with progress driven to 1.0. Genuine failures are reported through
// the package's sentinel errors. The intermediate audio file is deleted on
// every exit path.
func (t *Transcriber) Transcribe(ctx context.Context, source string, onProgress func(float64)) (Result, error) {
	logger := logging.WithContext(services.WithVideo(ctx, source), t.logger)
	report := func(fraction float64) {
		if onProgress != nil {
			onProgress(fraction)
		}
	}

	probe, err := t.probe(ctx, source)
	if err != nil {
		return Result{}, extractionError("probe container", err)
	}
	audioIndex := probe.FirstAudioStreamIndex()
	if audioIndex < 0 {
		logger.Info("no audio track, skipping transcription")
		report(progressComplete)
		return EmptyResult(), nil
	}
	report(progressTrackFound)

	status, err := resolveAuthorization(ctx, t.recognizer)
	if err != nil {
		return Result{}, recognitionError(err)
	}
	if status != AuthorizationAuthorized {
		return Result{}, fmt.Errorf("%w: status %s", ErrAuthorizationDenied, status)
	}
	if !t.recognizer.Available() {
		return Result{}, ErrRecognizerUnavailable
	}

	wavFile, err := os.CreateTemp(t.stagingDir, "narration-*.wav")
	if err != nil {
		return Result{}, extractionError("create staging file", err)
	}
	wavPath := wavFile.Name()
	_ = wavFile.Close()
	defer func() {
		_ = os.Remove(wavPath)
	}()

	duration := probe.DurationSeconds()
	err = t.extractor.Extract(ctx, source, audioIndex, wavPath, duration, func(fraction float64) {
		report(progressExtractStart + fraction*(progressExtractEnd-progressExtractStart))
	})
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, extractionError("decode audio", err)
	}
	report(progressExtractDone)

	logger.Debug("audio extracted",
		logging.String("wav", filepath.Base(wavPath)),
		logging.Float64("duration_seconds", duration),
	)

	outcome := newOneshot[RecognitionEvent]()
	t.recognizer.Recognize(ctx, wavPath, func(evt RecognitionEvent) {
		// Non-terminal partials are ignored; only the first terminal event
		// resolves the pending result, every later delivery is dropped.
		if evt.Terminal() {
			outcome.resolve(evt)
		}
	})
	evt, err := outcome.wait(ctx)
	if err != nil {
		return Result{}, err
	}
	if evt.Err != nil {
		return Result{}, recognitionError(evt.Err)
	}

	result := buildResult(evt)
	report(progressComplete)
	logger.Info("transcription complete",
		logging.Int("segment_count", len(result.Segments)),
		logging.Bool("empty", result.Empty()),
	)
	return result, nil
}

func buildResult(evt RecognitionEvent) Result {
	fullText := strings.TrimSpace(evt.FullText)
	if fullText == "" {
		return EmptyResult()
	}
	segments := make([]Segment, 0, len(evt.Segments))
	for _, seg := range evt.Segments {
		segments = append(segments, Segment{
			Text:  seg.Text,
			Start: seg.Start,
			End:   seg.End,
		})
	}
	return Result{FullText: fullText, Segments: segments}
}

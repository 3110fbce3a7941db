package videoanalysis

import (
	"context"
	"fmt"
	"log/slog"

	"shelfscan/internal/analysis"
	"shelfscan/internal/frames"
	"shelfscan/internal/logging"
	"shelfscan/internal/media/ffprobe"
	"shelfscan/internal/services"
	"shelfscan/internal/transcribe"
)

// FrameExtractor samples a video into timestamped frames.
// frames.Extractor is the production implementation.
type FrameExtractor interface {
	Extract(ctx context.Context, source string, intervalSeconds, durationSeconds float64, onProgress func(float64)) ([]frames.TimestampedFrame, error)
}

// AudioTranscriber converts a video's narration into a transcript.
// transcribe.Transcriber is the production implementation.
type AudioTranscriber interface {
	Transcribe(ctx context.Context, source string, onProgress func(float64)) (transcribe.Result, error)
}

// AnalysisService submits one batch of frames to the vision model.
// vision.Client is the production implementation. onPartial may be invoked
// any number of times, strictly before the final value is returned.
type AnalysisService interface {
	GetMultiItemDetails(ctx context.Context, images [][]byte, settings analysis.Settings, appContext analysis.Context, narration *string, onPartial func(analysis.MultiItemAnalysisResponse)) (analysis.MultiItemAnalysisResponse, error)
}

// Config bounds one coordinator's batching and narration alignment.
type Config struct {
	BatchSize              int
	FrameIntervalSeconds   float64
	NarrationWindowSeconds float64
}

// Coordinator orchestrates one video analysis run: frames and transcription
// concurrently, then strictly sequential vision batches with narration
// context, progressive deduplicated merging, and weighted progress.
type Coordinator struct {
	cfg             Config
	frames          FrameExtractor
	transcriber     AudioTranscriber
	service         AnalysisService
	dedup           analysis.Deduplicator
	probe           func(ctx context.Context, source string) (ffprobe.Result, error)
	contextProvider func() analysis.Context
	logger          *slog.Logger
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithProber overrides container inspection (used in tests).
func WithProber(probe func(ctx context.Context, source string) (ffprobe.Result, error)) Option {
	return func(c *Coordinator) {
		if probe != nil {
			c.probe = probe
		}
	}
}

// WithContextProvider supplies the labels and locations already known to the
// inventory. The provider is consulted fresh for every batch call.
func WithContextProvider(provider func() analysis.Context) Option {
	return func(c *Coordinator) {
		if provider != nil {
			c.contextProvider = provider
		}
	}
}

// New constructs a Coordinator. probeBinary names the ffprobe executable used
// to estimate the video duration for frame-extraction progress.
func New(cfg Config, probeBinary string, extractor FrameExtractor, transcriber AudioTranscriber, service AnalysisService, dedup analysis.Deduplicator, logger *slog.Logger, opts ...Option) *Coordinator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}
	if cfg.FrameIntervalSeconds <= 0 {
		cfg.FrameIntervalSeconds = 1.0
	}
	if cfg.NarrationWindowSeconds <= 0 {
		cfg.NarrationWindowSeconds = 0.5
	}
	c := &Coordinator{
		cfg:         cfg,
		frames:      extractor,
		transcriber: transcriber,
		service:     service,
		dedup:       dedup,
		probe: func(ctx context.Context, source string) (ffprobe.Result, error) {
			return ffprobe.Inspect(ctx, probeBinary, source)
		},
		contextProvider: func() analysis.Context { return analysis.Context{} },
		logger:          logging.NewComponentLogger(logger, "coordinator"),
	}
	if c.dedup == nil {
		c.dedup = analysis.NewDeduplicator()
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type framesOutcome struct {
	frames []frames.TimestampedFrame
	err    error
}

type transcriptOutcome struct {
	result transcribe.Result
	err    error
}

// Analyze converts the video at source into a consolidated item list.
//
// Frame extraction failures and batch failures are fatal. Transcription
// failures are downgraded to an empty transcript. On success the final
// progress event carries OverallProgress exactly 1.0.
func (c *Coordinator) Analyze(ctx context.Context, source string, settings analysis.Settings, onProgress func(Progress)) (analysis.MultiItemAnalysisResponse, error) {
	var empty analysis.MultiItemAnalysisResponse
	publisher := newProgressPublisher(onProgress)

	ctx, cancel := context.WithCancel(services.WithVideo(ctx, source))
	defer cancel()
	logger := logging.WithContext(ctx, c.logger)

	logger.Info("analysis started", logging.String(logging.FieldEventType, "analysis_started"))

	duration := 0.0
	if probed, err := c.probe(ctx, source); err == nil {
		duration = probed.DurationSeconds()
	} else {
		logger.Debug("duration probe failed, frame progress degrades to completion-only",
			logging.Error(err),
		)
	}

	framesCh := make(chan framesOutcome, 1)
	framesCtx := services.WithPhase(ctx, string(PhaseExtractingFrames))
	go func() {
		extracted, err := c.frames.Extract(framesCtx, source, c.cfg.FrameIntervalSeconds, duration, func(f float64) {
			publisher.publish(Progress{
				Phase:           PhaseExtractingFrames,
				LocalProgress:   f,
				OverallProgress: f * weightFramesEnd,
			})
		})
		framesCh <- framesOutcome{frames: extracted, err: err}
	}()

	transcriptCh := make(chan transcriptOutcome, 1)
	transcribeCtx := services.WithPhase(ctx, string(PhaseTranscribing))
	go func() {
		result, err := c.transcriber.Transcribe(transcribeCtx, source, func(f float64) {
			publisher.publish(Progress{
				Phase:           PhaseTranscribing,
				LocalProgress:   f,
				OverallProgress: weightFramesEnd + f*(weightTranscribeEnd-weightFramesEnd),
			})
		})
		transcriptCh <- transcriptOutcome{result: result, err: err}
	}()

	framesOut := <-framesCh
	if framesOut.err != nil {
		return empty, services.Wrap(services.ErrExternalTool, "analysis", "extract frames", "", framesOut.err)
	}

	transcriptOut := <-transcriptCh
	transcript := transcriptOut.result
	if transcriptOut.err != nil {
		logger.Warn("transcription failed, continuing without narration",
			logging.Error(transcriptOut.err),
		)
		transcript = transcribe.EmptyResult()
	}
	publisher.publish(Progress{
		Phase:           PhaseTranscribing,
		LocalProgress:   1,
		OverallProgress: weightTranscribeEnd,
	})

	allFrames := framesOut.frames
	logger.Info("inputs settled",
		logging.Int(logging.FieldFrameCount, len(allFrames)),
		logging.Int("segment_count", len(transcript.Segments)),
	)

	if len(allFrames) == 0 {
		response := analysis.EmptyResponse()
		publisher.publish(Progress{
			Phase:           PhaseDeduplicating,
			LocalProgress:   1,
			OverallProgress: 1,
			Partial:         &response,
		})
		return response, nil
	}

	total := (len(allFrames) + c.cfg.BatchSize - 1) / c.cfg.BatchSize
	batchSpan := (weightBatchesEnd - weightTranscribeEnd) / float64(total)
	completed := make([]analysis.BatchResult, 0, total)
	batchCtx := services.WithPhase(ctx, string(PhaseAnalyzingBatch))

	for index := 0; index < total; index++ {
		offset := index * c.cfg.BatchSize
		end := min(offset+c.cfg.BatchSize, len(allFrames))
		batch := allFrames[offset:end]

		images := make([][]byte, len(batch))
		timestamps := make([]float64, len(batch))
		for i, frame := range batch {
			images[i] = frame.Data
			timestamps[i] = frame.Timestamp
		}
		narration := narrationContext(transcript.Segments, timestamps, c.cfg.NarrationWindowSeconds)
		appContext := c.contextProvider()

		base := weightTranscribeEnd + batchSpan*float64(index)
		prior := append([]analysis.BatchResult(nil), completed...)
		onPartial := func(partial analysis.MultiItemAnalysisResponse) {
			merged := c.dedup.Deduplicate(append(prior, analysis.BatchResult{Response: partial, BatchOffset: offset}))
			// Item-count heuristic: a liveliness signal, not a work fraction.
			local := batchHeuristicFloor + 0.16*float64(partial.DetectedCount)
			if local > batchHeuristicCeil {
				local = batchHeuristicCeil
			}
			publisher.publish(Progress{
				Phase:           PhaseAnalyzingBatch,
				BatchIndex:      index + 1,
				BatchCount:      total,
				LocalProgress:   local,
				OverallProgress: base + batchSpan*local,
				Partial:         &merged,
			})
		}

		response, err := c.service.GetMultiItemDetails(batchCtx, images, settings, appContext, narration, onPartial)
		if err != nil {
			return empty, services.Wrap(services.ErrExternalTool, "analysis", fmt.Sprintf("batch %d/%d", index+1, total), "", err)
		}

		completed = append(completed, analysis.BatchResult{Response: response, BatchOffset: offset})
		merged := c.dedup.Deduplicate(completed)
		publisher.publish(Progress{
			Phase:           PhaseAnalyzingBatch,
			BatchIndex:      index + 1,
			BatchCount:      total,
			LocalProgress:   1,
			OverallProgress: base + batchSpan,
			Partial:         &merged,
		})
		logger.Debug("batch complete",
			logging.Int(logging.FieldBatchIndex, index+1),
			logging.Int(logging.FieldBatchCount, total),
			logging.Int(logging.FieldItemCount, merged.DetectedCount),
		)
	}

	publisher.publish(Progress{
		Phase:           PhaseDeduplicating,
		OverallProgress: weightBatchesEnd,
	})
	final := c.dedup.Deduplicate(completed)
	publisher.publish(Progress{
		Phase:           PhaseDeduplicating,
		LocalProgress:   1,
		OverallProgress: 1,
		Partial:         &final,
	})
	logger.Info("analysis complete",
		logging.String(logging.FieldEventType, "analysis_complete"),
		logging.Int(logging.FieldItemCount, final.DetectedCount),
	)
	return final, nil
}

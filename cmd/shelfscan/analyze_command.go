package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"shelfscan/internal/analysis"
	"shelfscan/internal/analysis/vision"
	"shelfscan/internal/config"
	"shelfscan/internal/fileutil"
	"shelfscan/internal/frames"
	"shelfscan/internal/media/ffprobe"
	"shelfscan/internal/media/pcm"
	"shelfscan/internal/preflight"
	"shelfscan/internal/services"
	"shelfscan/internal/store"
	"shelfscan/internal/transcribe"
	"shelfscan/internal/transcribe/whisper"
	"shelfscan/internal/videoanalysis"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var noSave bool
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "analyze <video>",
		Short: "Analyze a walkthrough video and catalog the detected items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := resolveVideoArg(args[0])
			if err != nil {
				return err
			}

			return ctx.withRunLock(func(cfg *config.Config) error {
				out := cmd.OutOrStdout()

				if !skipPreflight {
					if err := runPreflight(cmd, cfg); err != nil {
						return err
					}
				}

				logger, err := ctx.newRunLogger(cfg)
				if err != nil {
					return err
				}

				// Work off a verified copy so the original can move or
				// change while extraction is running.
				staged := fileutil.StagePath(cfg.Paths.StagingDir, source)
				if err := fileutil.CopyFileVerified(source, staged); err != nil {
					return fmt.Errorf("stage video: %w", err)
				}
				defer func() {
					_ = os.Remove(staged)
				}()

				// An audio-only or unreadable container fails fast here
				// instead of surfacing as an empty analysis.
				if probed, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), staged); err == nil && probed.VideoStreamCount() == 0 {
					return fmt.Errorf("%s: no video stream", source)
				}

				coordinator := buildCoordinator(cfg, logger)
				settings := analysis.Settings{
					Currency: cfg.Analysis.Currency,
					Detail:   cfg.Vision.Detail,
				}

				// Every log line for this run carries the same correlation ID.
				runCtx := services.WithRequestID(cmd.Context(), uuid.NewString())

				renderer := newProgressRenderer(out)
				response, err := coordinator.Analyze(runCtx, staged, settings, renderer.Update)
				renderer.Finish()
				if err != nil {
					return err
				}

				var savedID string
				if !noSave {
					err := ctx.withStore(func(_ *config.Config, s *store.Store) error {
						saved, err := s.Save(runCtx, source, response)
						if err != nil {
							return err
						}
						savedID = saved.ID
						return nil
					})
					if err != nil {
						return fmt.Errorf("save analysis: %w", err)
					}
				}

				if jsonOutput {
					return writeJSON(cmd, analyzeOutput{
						ID:       savedID,
						Video:    source,
						Response: response,
					})
				}

				fmt.Fprintln(out, summarizeResponse(response))
				if len(response.Items) > 0 {
					fmt.Fprintln(out, renderItemsTable(response.Items))
				}
				if savedID != "" {
					fmt.Fprintf(out, "Saved as %s\n", savedID)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the analysis as JSON")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Skip persisting the analysis to the results store")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip environment checks before analyzing")
	return cmd
}

type analyzeOutput struct {
	ID       string                             `json:"id,omitempty"`
	Video    string                             `json:"video"`
	Response analysis.MultiItemAnalysisResponse `json:"response"`
}

// runPreflight aborts the run when any readiness check or required binary
// is missing, printing every failure so they can all be fixed at once.
func runPreflight(cmd *cobra.Command, cfg *config.Config) error {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	var failures []string
	for _, result := range preflight.RunAll(cmd.Context(), cfg) {
		if !result.Passed {
			failures = append(failures, renderPreflightResult(result, colorize))
		}
	}
	for _, status := range preflight.CheckSystemDeps(cfg) {
		if !status.Available && !status.Optional {
			failures = append(failures, renderDepStatus(status, colorize))
		}
	}

	if len(failures) == 0 {
		return nil
	}
	fmt.Fprintln(out, "Preflight checks failed:")
	fmt.Fprintln(out, strings.Join(failures, "\n"))
	return errors.New("environment not ready; fix the checks above or pass --skip-preflight")
}

// buildCoordinator wires the full analysis pipeline from configuration.
func buildCoordinator(cfg *config.Config, logger *slog.Logger) *videoanalysis.Coordinator {
	recognizer := whisper.New(whisper.Config{
		Binary:    cfg.WhisperBinary(),
		ModelPath: cfg.Whisper.ModelPath,
		Language:  cfg.Whisper.Language,
		Threads:   cfg.Whisper.Threads,
	})
	transcriber := transcribe.New(
		cfg.FFprobeBinary(),
		pcm.NewExtractor(cfg.FFmpegBinary()),
		recognizer,
		cfg.Paths.StagingDir,
		logger,
	)
	client := vision.NewClient(vision.Config{
		APIKey:         cfg.Vision.APIKey,
		BaseURL:        cfg.Vision.BaseURL,
		Model:          cfg.Vision.Model,
		Detail:         cfg.Vision.Detail,
		TimeoutSeconds: cfg.Vision.TimeoutSeconds,
	})

	return videoanalysis.New(
		videoanalysis.Config{
			BatchSize:              cfg.Analysis.BatchSize,
			FrameIntervalSeconds:   cfg.Analysis.FrameIntervalSeconds,
			NarrationWindowSeconds: cfg.Analysis.NarrationWindow,
		},
		cfg.FFprobeBinary(),
		frames.NewExtractor(cfg.FFmpegBinary()),
		transcriber,
		client,
		analysis.NewDeduplicator(),
		logger,
		videoanalysis.WithContextProvider(func() analysis.Context {
			return analysis.Context{
				Labels:    cfg.Analysis.Labels,
				Locations: cfg.Analysis.Locations,
			}
		}),
	)
}

package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"shelfscan/internal/config"
	"shelfscan/internal/media/pcm"
	"shelfscan/internal/services"
	"shelfscan/internal/transcribe"
	"shelfscan/internal/transcribe/whisper"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "transcribe <video>",
		Short: "Transcribe a video's narration without analyzing frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := resolveVideoArg(args[0])
			if err != nil {
				return err
			}

			return ctx.withRunLock(func(cfg *config.Config) error {
				logger, err := ctx.newRunLogger(cfg)
				if err != nil {
					return err
				}

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

				out := cmd.OutOrStdout()
				runCtx := services.WithRequestID(cmd.Context(), uuid.NewString())
				result, err := transcriber.Transcribe(runCtx, source, nil)
				if err != nil {
					return err
				}

				if jsonOutput {
					segments := make([]segmentOutput, 0, len(result.Segments))
					for _, seg := range result.Segments {
						segments = append(segments, segmentOutput{
							Text:  seg.Text,
							Start: seg.Start,
							End:   seg.End,
						})
					}
					return writeJSON(cmd, transcribeOutput{
						Video:    source,
						FullText: result.FullText,
						Segments: segments,
					})
				}

				if result.Empty() {
					fmt.Fprintln(out, "No narration detected")
					return nil
				}
				fmt.Fprintln(out, result.FullText)
				if len(result.Segments) > 0 {
					fmt.Fprintln(out, renderSegmentsTable(result.Segments))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the transcript as JSON")
	return cmd
}

type transcribeOutput struct {
	Video    string          `json:"video"`
	FullText string          `json:"fullText"`
	Segments []segmentOutput `json:"segments"`
}

type segmentOutput struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func renderSegmentsTable(segments []transcribe.Segment) string {
	rows := make([][]string, 0, len(segments))
	for _, seg := range segments {
		rows = append(rows, []string{
			fmt.Sprintf("%.2f", seg.Start),
			fmt.Sprintf("%.2f", seg.End),
			truncate(seg.Text, 72),
		})
	}
	return renderTable(
		[]string{"Start", "End", "Text"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft},
	)
}

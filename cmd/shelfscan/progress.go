package main

import (
	"fmt"
	"io"

	"shelfscan/internal/videoanalysis"
)

// progressRenderer turns coordinator progress events into terminal output.
// On a TTY it rewrites a single status line in place; otherwise it prints
// one line per phase change so piped output stays readable.
type progressRenderer struct {
	out         io.Writer
	interactive bool

	lastPhase videoanalysis.Phase
	lastBatch int
	lineOpen  bool
}

func newProgressRenderer(out io.Writer) *progressRenderer {
	return &progressRenderer{out: out, interactive: shouldColorize(out)}
}

func (r *progressRenderer) Update(p videoanalysis.Progress) {
	label := phaseLabel(p)
	percent := int(p.OverallProgress * 100)

	if r.interactive {
		fmt.Fprintf(r.out, "\r\x1b[2K%s%-28s %3d%%", statusIndent, label, percent)
		r.lineOpen = true
		return
	}

	if p.Phase != r.lastPhase || p.BatchIndex != r.lastBatch {
		fmt.Fprintf(r.out, "%s%-28s %3d%%\n", statusIndent, label, percent)
		r.lastPhase = p.Phase
		r.lastBatch = p.BatchIndex
	}
}

// Finish closes the in-place status line so later output starts clean.
func (r *progressRenderer) Finish() {
	if r.interactive && r.lineOpen {
		fmt.Fprintln(r.out)
		r.lineOpen = false
	}
}

func phaseLabel(p videoanalysis.Progress) string {
	switch p.Phase {
	case videoanalysis.PhaseExtractingFrames:
		return "Extracting frames"
	case videoanalysis.PhaseTranscribing:
		return "Transcribing narration"
	case videoanalysis.PhaseAnalyzingBatch:
		label := fmt.Sprintf("Analyzing batch %d/%d", p.BatchIndex, p.BatchCount)
		if p.Partial != nil && p.Partial.DetectedCount > 0 {
			label = fmt.Sprintf("%s (%d items)", label, p.Partial.DetectedCount)
		}
		return label
	case videoanalysis.PhaseDeduplicating:
		return "Merging results"
	default:
		return string(p.Phase)
	}
}

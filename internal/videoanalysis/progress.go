package videoanalysis

import (
	"sync"

	"shelfscan/internal/analysis"
)

// Phase identifies which stage of an analysis run a progress event belongs to.
type Phase string

const (
	PhaseExtractingFrames Phase = "extracting_frames"
	PhaseTranscribing     Phase = "transcribing_audio"
	PhaseAnalyzingBatch   Phase = "analyzing_batch"
	PhaseDeduplicating    Phase = "deduplicating"
)

// Overall progress weighting across one analysis run. Batch analysis splits
// its range evenly across batches; the in-batch heuristic signal is clamped
// to [0.12, 0.92] of a batch's local range.
const (
	weightFramesEnd     = 0.35
	weightTranscribeEnd = 0.55
	weightBatchesEnd    = 0.95
	batchHeuristicFloor = 0.12
	batchHeuristicCeil  = 0.92
)

// Progress is one observation of an analysis run. OverallProgress is
// non-decreasing across the events of one Analyze call; LocalProgress is only
// monotonic within its phase. Partial, when non-nil, is the deduplicated
// merge of everything detected so far.
type Progress struct {
	Phase           Phase
	BatchIndex      int
	BatchCount      int
	LocalProgress   float64
	OverallProgress float64
	Partial         *analysis.MultiItemAnalysisResponse
}

// progressPublisher re-marshals progress updates from arbitrary goroutines
// into an ordered stream. The mutex serializes deliveries and the stored
// high-water mark keeps OverallProgress monotone no matter which subsystem
// reports first.
type progressPublisher struct {
	mu       sync.Mutex
	callback func(Progress)
	overall  float64
}

func newProgressPublisher(callback func(Progress)) *progressPublisher {
	return &progressPublisher{callback: callback}
}

func (p *progressPublisher) publish(event Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	event.LocalProgress = clamp01(event.LocalProgress)
	overall := clamp01(event.OverallProgress)
	if overall < p.overall {
		overall = p.overall
	}
	p.overall = overall
	event.OverallProgress = overall

	if p.callback != nil {
		p.callback(event)
	}
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

package videoanalysis

import (
	"strings"

	"shelfscan/internal/transcribe"
)

// narrationContext builds the transcript excerpt temporally aligned with a
// batch's frames: every segment whose span overlaps or lies within window
// seconds of any frame timestamp, deduplicated by text, joined in transcript
// order. Returns nil when nothing aligns, never an empty string.
func narrationContext(segments []transcribe.Segment, frameTimestamps []float64, window float64) *string {
	if len(segments) == 0 || len(frameTimestamps) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var parts []string
	for _, segment := range segments {
		if !segmentNearFrames(segment, frameTimestamps, window) {
			continue
		}
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, " ")
	return &joined
}

func segmentNearFrames(segment transcribe.Segment, frameTimestamps []float64, window float64) bool {
	for _, ts := range frameTimestamps {
		if ts >= segment.Start-window && ts <= segment.End+window {
			return true
		}
	}
	return false
}

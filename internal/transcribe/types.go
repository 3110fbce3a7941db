package transcribe

import "strings"

// Segment is one unit of recognized speech with its time span, in seconds
// from the start of the video.
type Segment struct {
	Text  string
	Start float64
	End   float64
}

// Result is the outcome of transcribing a video's narration. The zero value
// is the canonical "no narration available" result, returned both when the
// video has no audio track and when recognition produced nothing usable.
type Result struct {
	FullText string
	Segments []Segment
}

// Empty reports whether the result carries no narration.
func (r Result) Empty() bool {
	return strings.TrimSpace(r.FullText) == "" && len(r.Segments) == 0
}

// EmptyResult returns the canonical empty transcription result.
func EmptyResult() Result {
	return Result{}
}

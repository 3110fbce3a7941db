// Package videoanalysis orchestrates one video-to-inventory analysis run.
//
// Frame extraction and transcription are launched concurrently; frames are
// mandatory while narration is best-effort. Extracted frames are then
// submitted to the vision service in fixed-size, strictly sequential batches,
// each carrying the transcript excerpt aligned with its frames. Every partial
// and per-batch result is folded through the deduplicator into a progressive
// merge, and all progress signals are re-marshalled into one monotone
// weighted scalar.
package videoanalysis

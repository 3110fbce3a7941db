// Package transcribe turns a video's narration track into a time-aligned
// transcript.
//
// The pipeline probes the container for audio, pulls the track into a mono
// 16 kHz WAV through a backpressured decode loop, and submits it to a
// callback-based speech Recognizer. Recognizer callbacks may fire more than
// once (partials, duplicate terminal deliveries); the package bridges them
// into exactly one awaited outcome per request.
//
// A silent video is success, not failure: Transcribe returns the canonical
// empty Result. Genuine failures are classified through the sentinel errors
// ErrAuthorizationDenied, ErrRecognizerUnavailable, ErrAudioExtractionFailed,
// and ErrTranscriptionFailed so callers can decide which are survivable.
package transcribe

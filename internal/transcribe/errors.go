package transcribe

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthorizationDenied indicates speech recognition permission was
	// declined or restricted.
	ErrAuthorizationDenied = errors.New("speech recognition authorization denied")
	// ErrRecognizerUnavailable indicates no on-device recognizer can serve
	// the request.
	ErrRecognizerUnavailable = errors.New("speech recognizer unavailable")
	// ErrAudioExtractionFailed indicates the decode/encode pipeline failed
	// while pulling the audio track out of the video.
	ErrAudioExtractionFailed = errors.New("audio extraction failed")
	// ErrTranscriptionFailed indicates the recognizer reported an error.
	ErrTranscriptionFailed = errors.New("transcription failed")
)

// IsTranscriptionError reports whether err belongs to the transcription error
// taxonomy. The analysis coordinator downgrades all of these to an empty
// transcript instead of failing the run.
func IsTranscriptionError(err error) bool {
	return errors.Is(err, ErrAuthorizationDenied) ||
		errors.Is(err, ErrRecognizerUnavailable) ||
		errors.Is(err, ErrAudioExtractionFailed) ||
		errors.Is(err, ErrTranscriptionFailed)
}

func extractionError(operation string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrAudioExtractionFailed, operation, err)
}

func recognitionError(err error) error {
	return fmt.Errorf("%w: %w", ErrTranscriptionFailed, err)
}

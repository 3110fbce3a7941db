// Package whisper adapts the whisper.cpp command-line transcriber to the
// transcribe.Recognizer contract: one-shot JSON-output invocations with
// millisecond segment offsets mapped to seconds.
package whisper

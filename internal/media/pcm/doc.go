// Package pcm extracts the audio track of a video container into a mono
// 16 kHz 16-bit WAV file suitable for speech recognition.
//
// Decoding runs through ffmpeg writing raw s16le samples to a pipe. A
// producer goroutine reads the pipe into a bounded channel and the consumer
// appends each buffer to the WAV writer, so memory use stays capped at a
// couple of chunks regardless of video length. Progress is derived from the
// source timestamp of the most recently written buffer.
package pcm

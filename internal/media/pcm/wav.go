package pcm

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	// SampleRate is the output sample rate required by the speech recognizer.
	SampleRate = 16000
	// BytesPerSample is the width of one s16le mono sample.
	BytesPerSample = 2

	wavHeaderSize = 44
)

// WAVWriter streams raw s16le mono samples into a WAV container. The RIFF
// size fields are back-patched on Close, so the file is only valid once the
// writer has been closed.
type WAVWriter struct {
	file      *os.File
	dataBytes int64
	closed    bool
}

// NewWAVWriter creates dest and reserves space for the WAV header.
func NewWAVWriter(dest string) (*WAVWriter, error) {
	file, err := os.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("create wav: %w", err)
	}
	if _, err := file.Write(make([]byte, wavHeaderSize)); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("reserve wav header: %w", err)
	}
	return &WAVWriter{file: file}, nil
}

// Write appends raw sample bytes to the data chunk.
func (w *WAVWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("wav writer closed")
	}
	n, err := w.file.Write(p)
	w.dataBytes += int64(n)
	return n, err
}

// DataBytes returns the number of sample bytes written so far.
func (w *WAVWriter) DataBytes() int64 {
	return w.dataBytes
}

// Close patches the header with final sizes and closes the file.
func (w *WAVWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	header := make([]byte, wavHeaderSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+w.dataBytes))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], 1) // mono
	binary.LittleEndian.PutUint32(header[24:28], SampleRate)
	binary.LittleEndian.PutUint32(header[28:32], SampleRate*BytesPerSample)
	binary.LittleEndian.PutUint16(header[32:34], BytesPerSample)
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(w.dataBytes))

	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("seek wav header: %w", err)
	}
	if _, err := w.file.Write(header); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("write wav header: %w", err)
	}
	return w.file.Close()
}

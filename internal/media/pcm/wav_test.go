package pcm

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestWAVWriterHeader(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.wav")
	writer, err := NewWAVWriter(dest)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	samples := make([]byte, 320) // 10ms of mono 16kHz
	if _, err := writer.Write(samples); err != nil {
		t.Fatalf("write: %v", err)
	}
	if writer.DataBytes() != int64(len(samples)) {
		t.Fatalf("data bytes: %d", writer.DataBytes())
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) != wavHeaderSize+len(samples) {
		t.Fatalf("file size: %d", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("bad magic: %q %q", data[0:4], data[8:12])
	}
	if got := binary.LittleEndian.Uint32(data[24:28]); got != SampleRate {
		t.Fatalf("sample rate: %d", got)
	}
	if got := binary.LittleEndian.Uint16(data[22:24]); got != 1 {
		t.Fatalf("channels: %d", got)
	}
	if got := binary.LittleEndian.Uint32(data[40:44]); got != uint32(len(samples)) {
		t.Fatalf("data chunk size: %d", got)
	}
}

func TestWAVWriterRejectsWriteAfterClose(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.wav")
	writer, err := NewWAVWriter(dest)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := writer.Write([]byte{0, 0}); err == nil {
		t.Fatal("expected write-after-close error")
	}
	// Second close is a no-op.
	if err := writer.Close(); err != nil {
		t.Fatalf("double close: %v", err)
	}
}

package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteVideoFixtureLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clips", "garage.mov")
	WriteVideoFixture(t, path, 64)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if len(data) != 20+8+64 {
		t.Fatalf("fixture size = %d, want %d", len(data), 20+8+64)
	}
	if !bytes.Equal(data[4:8], []byte("ftyp")) {
		t.Fatalf("first box kind = %q, want ftyp", data[4:8])
	}
	if !bytes.Equal(data[24:28], []byte("mdat")) {
		t.Fatalf("second box kind = %q, want mdat", data[24:28])
	}
}

func TestWriteVideoFixtureClampsNegativeSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.mov")
	WriteVideoFixture(t, path, -1)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat fixture: %v", err)
	}
	if info.Size() != 20+8 {
		t.Fatalf("fixture size = %d, want %d", info.Size(), 20+8)
	}
}

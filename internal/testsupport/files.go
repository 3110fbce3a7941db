package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// WriteVideoFixture writes a stub QuickTime container at path: an ftyp box
// declaring the qt brand followed by an mdat box of zero-filled sample data.
// The payload is not decodable; it only has to survive staging, hashing, and
// being handed to stub media binaries in CLI tests.
func WriteVideoFixture(t testing.TB, path string, mdatBytes int) {
	t.Helper()

	if mdatBytes < 0 {
		mdatBytes = 0
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	payload := appendBox(nil, "ftyp", []byte("qt  \x00\x00\x02\x00qt  "))
	payload = appendBox(payload, "mdat", make([]byte, mdatBytes))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// appendBox appends one size-prefixed box in the ISO base media layout.
func appendBox(dst []byte, kind string, body []byte) []byte {
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(8+len(body)))
	dst = append(dst, size[:]...)
	dst = append(dst, kind...)
	return append(dst, body...)
}

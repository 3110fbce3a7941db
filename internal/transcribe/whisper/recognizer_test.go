package whisper

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"shelfscan/internal/transcribe"
)

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ggml-base.bin")
	if err := os.WriteFile(path, []byte("model"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return path
}

func TestAuthorizationResolution(t *testing.T) {
	rec := New(Config{ModelPath: writeModel(t)})
	if got := rec.AuthorizationStatus(); got != transcribe.AuthorizationUndetermined {
		t.Fatalf("initial status: %v", got)
	}

	var resolved transcribe.AuthorizationStatus
	rec.RequestAuthorization(func(s transcribe.AuthorizationStatus) { resolved = s })
	if resolved != transcribe.AuthorizationAuthorized {
		t.Fatalf("resolved status: %v", resolved)
	}
	if got := rec.AuthorizationStatus(); got != transcribe.AuthorizationAuthorized {
		t.Fatalf("cached status: %v", got)
	}
}

func TestAuthorizationDeniedWithoutModel(t *testing.T) {
	rec := New(Config{})
	var resolved transcribe.AuthorizationStatus
	rec.RequestAuthorization(func(s transcribe.AuthorizationStatus) { resolved = s })
	if resolved != transcribe.AuthorizationDenied {
		t.Fatalf("resolved status: %v", resolved)
	}
}

func TestRecognizeParsesOutput(t *testing.T) {
	// Stub whisper-cli: locate the -of argument and write a canned JSON
	// transcript next to it.
	binDir := t.TempDir()
	stub := filepath.Join(binDir, "whisper-cli")
	script := `#!/bin/sh
out=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "-of" ]; then out="$arg"; fi
  prev="$arg"
done
cat > "$out.json" <<'EOF'
{"transcription":[
  {"offsets":{"from":2000,"to":3000},"text":" this is a lamp"},
  {"offsets":{"from":4500,"to":6000},"text":" and an old radio"}
]}
EOF
`
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	rec := New(Config{Binary: stub, ModelPath: writeModel(t), Language: "en"})

	var events []transcribe.RecognitionEvent
	rec.Recognize(context.Background(), "audio.wav", func(evt transcribe.RecognitionEvent) {
		events = append(events, evt)
	})

	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	evt := events[0]
	if evt.Err != nil || !evt.Final {
		t.Fatalf("unexpected event: %+v", evt)
	}
	if evt.FullText != "this is a lamp and an old radio" {
		t.Fatalf("full text: %q", evt.FullText)
	}
	if len(evt.Segments) != 2 {
		t.Fatalf("segments: %+v", evt.Segments)
	}
	first := evt.Segments[0]
	if first.Text != "this is a lamp" || first.Start != 2.0 || first.End != 3.0 {
		t.Fatalf("first segment: %+v", first)
	}
}

func TestRecognizeReportsToolFailure(t *testing.T) {
	binDir := t.TempDir()
	stub := filepath.Join(binDir, "whisper-cli")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho 'no model' >&2\nexit 3\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	rec := New(Config{Binary: stub, ModelPath: writeModel(t)})
	var evt transcribe.RecognitionEvent
	rec.Recognize(context.Background(), "audio.wav", func(e transcribe.RecognitionEvent) { evt = e })
	if evt.Err == nil {
		t.Fatal("expected error event")
	}
	if !evt.Terminal() {
		t.Fatal("error event must be terminal")
	}
}

package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"shelfscan/internal/transcribe"
)

var commandContext = exec.CommandContext

// Config captures runtime settings for the whisper.cpp CLI.
type Config struct {
	// Binary is the whisper-cli executable name or path.
	Binary string
	// ModelPath points at a ggml model file.
	ModelPath string
	// Language is the ISO-639-1 spoken language hint.
	Language string
	// Threads caps decoder threads; 0 lets the tool decide.
	Threads int
}

// Recognizer runs whisper.cpp over extracted WAV audio and adapts its output
// to the transcribe.Recognizer contract.
//
// Authorization maps onto model availability: the status stays undetermined
// until the first request resolves it by checking that the configured model
// file is readable.
type Recognizer struct {
	cfg Config

	mu     sync.Mutex
	status transcribe.AuthorizationStatus
}

// New builds a Recognizer from the supplied configuration.
func New(cfg Config) *Recognizer {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = "whisper-cli"
	}
	return &Recognizer{cfg: cfg, status: transcribe.AuthorizationUndetermined}
}

// AuthorizationStatus returns the resolved permission state.
func (r *Recognizer) AuthorizationStatus() transcribe.AuthorizationStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// RequestAuthorization resolves the permission state once and reports it
// through callback. Later requests reuse the cached resolution.
func (r *Recognizer) RequestAuthorization(callback func(transcribe.AuthorizationStatus)) {
	r.mu.Lock()
	if r.status == transcribe.AuthorizationUndetermined {
		r.status = r.resolveStatus()
	}
	status := r.status
	r.mu.Unlock()
	if callback != nil {
		callback(status)
	}
}

func (r *Recognizer) resolveStatus() transcribe.AuthorizationStatus {
	model := strings.TrimSpace(r.cfg.ModelPath)
	if model == "" {
		return transcribe.AuthorizationDenied
	}
	info, err := os.Stat(model)
	if err != nil || info.IsDir() {
		return transcribe.AuthorizationDenied
	}
	return transcribe.AuthorizationAuthorized
}

// Available reports whether the whisper binary can be located.
func (r *Recognizer) Available() bool {
	_, err := exec.LookPath(r.cfg.Binary)
	return err == nil
}

// Recognize transcribes audioPath and delivers the outcome through emit.
// Partial results are disabled; the only event is terminal (a final result or
// an error).
func (r *Recognizer) Recognize(ctx context.Context, audioPath string, emit func(transcribe.RecognitionEvent)) {
	result, err := r.run(ctx, audioPath)
	if err != nil {
		emit(transcribe.RecognitionEvent{Err: err})
		return
	}
	emit(transcribe.RecognitionEvent{
		FullText: result.fullText(),
		Segments: result.segments(),
		Final:    true,
	})
}

func (r *Recognizer) run(ctx context.Context, audioPath string) (*payload, error) {
	outDir, err := os.MkdirTemp("", "whisper-out-")
	if err != nil {
		return nil, fmt.Errorf("whisper: create output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	outBase := filepath.Join(outDir, "transcript")
	args := []string{
		"-m", r.cfg.ModelPath,
		"-l", r.cfg.Language,
		"-f", audioPath,
		"-oj",
		"-of", outBase,
		"-np",
	}
	if r.cfg.Threads > 0 {
		args = append(args, "-t", fmt.Sprint(r.cfg.Threads))
	}

	cmd := commandContext(ctx, r.cfg.Binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("whisper: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return loadPayload(outBase + ".json")
}

// payload is the JSON structure produced by whisper.cpp with -oj.
type payload struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func loadPayload(path string) (*payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("whisper: read output: %w", err)
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("whisper: parse output: %w", err)
	}
	return &p, nil
}

func (p *payload) fullText() string {
	parts := make([]string, 0, len(p.Transcription))
	for _, entry := range p.Transcription {
		if text := strings.TrimSpace(entry.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

func (p *payload) segments() []transcribe.Segment {
	segments := make([]transcribe.Segment, 0, len(p.Transcription))
	for _, entry := range p.Transcription {
		text := strings.TrimSpace(entry.Text)
		if text == "" {
			continue
		}
		segments = append(segments, transcribe.Segment{
			Text:  text,
			Start: float64(entry.Offsets.From) / 1000,
			End:   float64(entry.Offsets.To) / 1000,
		})
	}
	return segments
}

var _ transcribe.Recognizer = (*Recognizer)(nil)

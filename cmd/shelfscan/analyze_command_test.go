package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"shelfscan/internal/testsupport"
)

const okHealthStream = "data: {\"choices\":[{\"delta\":{\"content\":\"{\\\"ok\\\":true}\"}}]}\n\ndata: [DONE]\n\n"

func healthyVisionServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(okHealthStream))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func stubBinary(t *testing.T, dir, name, script string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write %s stub: %v", name, err)
	}
}

// stubMediaTools puts ffmpeg/ffprobe/whisper-cli stubs at the front of PATH.
// ffprobe reports a silent video-only container and ffmpeg emits no frames,
// which drives the pipeline down the zero-frame fast path without touching
// the vision endpoint.
func stubMediaTools(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	stubBinary(t, dir, "ffprobe", `printf '{"streams":[{"index":0,"codec_type":"video"}],"format":{"duration":"0"}}'`+"\n")
	stubBinary(t, dir, "ffmpeg", "exit 0\n")
	stubBinary(t, dir, "whisper-cli", "exit 0\n")
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestAnalyzeZeroFramesFastPath(t *testing.T) {
	stubMediaTools(t)
	srv := healthyVisionServer(t)

	cfg := testsupport.NewConfig(t)
	cfg.Vision.BaseURL = srv.URL
	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)

	video := filepath.Join(t.TempDir(), "walkthrough.mov")
	testsupport.WriteVideoFixture(t, video, 2048)

	out, _, err := runCLI(t, []string{"analyze", video, "--no-save"}, configPath)
	if err != nil {
		t.Fatalf("analyze: %v\noutput:\n%s", err, out)
	}
	requireContains(t, out, "Detected 0 items")
}

func TestAnalyzeSavesResult(t *testing.T) {
	stubMediaTools(t)
	srv := healthyVisionServer(t)

	cfg := testsupport.NewConfig(t)
	cfg.Vision.BaseURL = srv.URL
	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)

	video := filepath.Join(t.TempDir(), "walkthrough.mov")
	testsupport.WriteVideoFixture(t, video, 2048)

	out, _, err := runCLI(t, []string{"analyze", video}, configPath)
	if err != nil {
		t.Fatalf("analyze: %v\noutput:\n%s", err, out)
	}
	requireContains(t, out, "Saved as ")

	listOut, _, err := runCLI(t, []string{"results", "list"}, configPath)
	if err != nil {
		t.Fatalf("results list: %v", err)
	}
	requireContains(t, listOut, "walkthrough.mov")
}

func TestAnalyzeCleansStagingCopy(t *testing.T) {
	stubMediaTools(t)
	srv := healthyVisionServer(t)

	cfg := testsupport.NewConfig(t)
	cfg.Vision.BaseURL = srv.URL
	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)

	video := filepath.Join(t.TempDir(), "walkthrough.mov")
	testsupport.WriteVideoFixture(t, video, 2048)

	if _, _, err := runCLI(t, []string{"analyze", video, "--no-save"}, configPath); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	entries, err := os.ReadDir(cfg.Paths.StagingDir)
	if err != nil {
		t.Fatalf("read staging dir: %v", err)
	}
	for _, entry := range entries {
		t.Errorf("staging dir still contains %s", entry.Name())
	}
}

func TestAnalyzePreflightFailureAborts(t *testing.T) {
	stubMediaTools(t)

	// No vision server: the health check cannot succeed.
	cfg := testsupport.NewConfig(t)
	cfg.Vision.BaseURL = "http://127.0.0.1:1"
	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)

	video := filepath.Join(t.TempDir(), "walkthrough.mov")
	testsupport.WriteVideoFixture(t, video, 2048)

	out, _, err := runCLI(t, []string{"analyze", video, "--no-save"}, configPath)
	if err == nil {
		t.Fatalf("expected preflight failure, output:\n%s", out)
	}
	requireContains(t, out, "Preflight checks failed")
}

func TestAnalyzeRejectsContainerWithoutVideoStream(t *testing.T) {
	dir := t.TempDir()
	stubBinary(t, dir, "ffprobe", `printf '{"streams":[{"index":0,"codec_type":"audio"}],"format":{"duration":"4"}}'`+"\n")
	stubBinary(t, dir, "ffmpeg", "exit 0\n")
	stubBinary(t, dir, "whisper-cli", "exit 0\n")
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	srv := healthyVisionServer(t)

	cfg := testsupport.NewConfig(t)
	cfg.Vision.BaseURL = srv.URL
	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)

	video := filepath.Join(t.TempDir(), "voice-memo.mov")
	testsupport.WriteVideoFixture(t, video, 2048)

	out, _, err := runCLI(t, []string{"analyze", video, "--no-save"}, configPath)
	if err == nil {
		t.Fatalf("expected rejection, output:\n%s", out)
	}
	requireContains(t, err.Error(), "no video stream")
}

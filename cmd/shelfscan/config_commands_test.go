package main

import (
	"os"
	"path/filepath"
	"testing"

	"shelfscan/internal/testsupport"
)

func TestConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init without --overwrite must refuse to clobber the file.
	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err == nil {
		t.Fatal("expected error when config file already exists")
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "staging_dir")
	requireContains(t, out, env.cfg.Paths.StagingDir)
	requireContains(t, out, "vision.api_key set")
}

func TestConfigCheck(t *testing.T) {
	stubMediaTools(t)
	srv := healthyVisionServer(t)

	cfg := testsupport.NewConfig(t)
	cfg.Vision.BaseURL = srv.URL
	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)

	out, _, err := runCLI(t, []string{"config", "check"}, configPath)
	if err != nil {
		t.Fatalf("config check: %v\noutput:\n%s", err, out)
	}
	requireContains(t, out, "All checks passed")
	requireContains(t, out, "Vision API")
	requireContains(t, out, "FFmpeg")
}

func TestConfigCheckReportsMissingBinary(t *testing.T) {
	// Only ffprobe is stubbed; ffmpeg is required and absent.
	dir := t.TempDir()
	stubBinary(t, dir, "ffprobe", "exit 0\n")
	t.Setenv("PATH", dir)

	srv := healthyVisionServer(t)
	cfg := testsupport.NewConfig(t)
	cfg.Vision.BaseURL = srv.URL
	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)

	out, _, err := runCLI(t, []string{"config", "check"}, configPath)
	if err == nil {
		t.Fatalf("expected failure, output:\n%s", out)
	}
	requireContains(t, out, "FFmpeg")
}

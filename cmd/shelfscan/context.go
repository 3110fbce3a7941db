package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"shelfscan/internal/config"
	"shelfscan/internal/logging"
	"shelfscan/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withRunLock serializes analysis runs on this machine. Concurrent runs
// would interleave staging files and hammer the vision API, so the second
// invocation fails fast instead of queueing.
func (c *commandContext) withRunLock(fn func(cfg *config.Config) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "shelfscan.lock")
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock %s: %w", lockPath, err)
	}
	if !ok {
		return fmt.Errorf("another shelfscan run is in progress (lock %s held)", lockPath)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	return fn(cfg)
}

// withStore opens the results database for the duration of fn.
func (c *commandContext) withStore(fn func(cfg *config.Config, s *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	s, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open results store: %w", err)
	}
	defer s.Close()
	return fn(cfg, s)
}

// newRunLogger builds the structured logger for pipeline runs. Log output
// goes to a file under the configured log directory so terminal output
// stays reserved for progress and results.
func (c *commandContext) newRunLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "shelfscan.log")},
	})
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	return logger, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

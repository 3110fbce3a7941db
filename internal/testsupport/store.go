package testsupport

import (
	"context"
	"testing"

	"shelfscan/internal/analysis"
	"shelfscan/internal/config"
	"shelfscan/internal/store"
)

// MustOpenStore opens a results store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

// SaveAnalysis persists a response for tests using the provided store.
func SaveAnalysis(t testing.TB, s *store.Store, videoPath string, response analysis.MultiItemAnalysisResponse) *store.Analysis {
	t.Helper()

	record, err := s.Save(context.Background(), videoPath, response)
	if err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return record
}

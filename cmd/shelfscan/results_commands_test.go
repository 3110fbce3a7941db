package main

import (
	"strings"
	"testing"

	"shelfscan/internal/analysis"
	"shelfscan/internal/testsupport"
)

func seedAnalysis(t *testing.T, env *cliTestEnv, videoPath string, titles ...string) string {
	t.Helper()

	items := make([]analysis.ItemDetails, 0, len(titles))
	for _, title := range titles {
		items = append(items, analysis.ItemDetails{Title: title, Quantity: 1, Confidence: 0.8})
	}
	response := analysis.MultiItemAnalysisResponse{
		Items:         items,
		DetectedCount: len(items),
		AnalysisType:  analysis.AnalysisTypeMultiItem,
		Confidence:    0.8,
	}

	s := testsupport.MustOpenStore(t, env.cfg)
	saved := testsupport.SaveAnalysis(t, s, videoPath, response)
	return saved.ID
}

func TestResultsListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"results", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("results list: %v", err)
	}
	requireContains(t, out, "No saved analyses")
}

func TestResultsListShowsSaved(t *testing.T) {
	env := setupCLITestEnv(t)
	seedAnalysis(t, env, "/videos/kitchen.mov", "Toaster", "Kettle")

	out, _, err := runCLI(t, []string{"results", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("results list: %v", err)
	}
	requireContains(t, out, "kitchen.mov")
	requireContains(t, out, "2")
}

func TestResultsShowDisplaysItems(t *testing.T) {
	env := setupCLITestEnv(t)
	id := seedAnalysis(t, env, "/videos/office.mov", "Desk Lamp", "Monitor")

	out, _, err := runCLI(t, []string{"results", "show", id}, env.configPath)
	if err != nil {
		t.Fatalf("results show: %v", err)
	}
	requireContains(t, out, "office.mov")
	requireContains(t, out, "Desk Lamp")
	requireContains(t, out, "Monitor")
}

func TestResultsShowUnknownID(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"results", "show", "no-such-id"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown id")
	}
	if !strings.Contains(err.Error(), "no-such-id") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResultsDelete(t *testing.T) {
	env := setupCLITestEnv(t)
	id := seedAnalysis(t, env, "/videos/garage.mov", "Drill")

	out, _, err := runCLI(t, []string{"results", "delete", id}, env.configPath)
	if err != nil {
		t.Fatalf("results delete: %v", err)
	}
	requireContains(t, out, "Deleted")

	_, _, err = runCLI(t, []string{"results", "show", id}, env.configPath)
	if err == nil {
		t.Fatal("expected show to fail after delete")
	}
}

package store_test

import (
	"context"
	"os"
	"testing"

	"shelfscan/internal/analysis"
	"shelfscan/internal/store"
	"shelfscan/internal/testsupport"
)

func sampleResponse() analysis.MultiItemAnalysisResponse {
	return analysis.MultiItemAnalysisResponse{
		Items: []analysis.ItemDetails{
			{Title: "Desk Lamp", Category: "Lighting", Location: "Office", EstimatedPrice: "45", Quantity: 1, Confidence: 0.9},
			{Title: "Bookshelf", Category: "Furniture", Location: "Office", Quantity: 1, Confidence: 0.8},
		},
		DetectedCount: 2,
		AnalysisType:  analysis.AnalysisTypeMultiItem,
		Confidence:    0.85,
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	saved, err := s.Save(context.Background(), "/videos/office.mov", sampleResponse())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected generated id")
	}
	if saved.DetectedCount != 2 || len(saved.Items) != 2 {
		t.Fatalf("saved record: %+v", saved)
	}

	got, err := s.GetByID(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected record")
	}
	if got.VideoPath != "/videos/office.mov" {
		t.Fatalf("video path %q", got.VideoPath)
	}
	if got.Items[0].Title != "Desk Lamp" || got.Items[1].Title != "Bookshelf" {
		t.Fatalf("items out of order: %+v", got.Items)
	}
	if got.Items[0].EstimatedPrice != "45" || got.Items[0].Confidence != 0.9 {
		t.Fatalf("item fields lost: %+v", got.Items[0])
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("created_at not recorded")
	}
}

func TestGetUnknownIDReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	got, err := s.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestListNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	first := testsupport.SaveAnalysis(t, s, "/videos/a.mov", sampleResponse())
	second := testsupport.SaveAnalysis(t, s, "/videos/b.mov", sampleResponse())

	records, err := s.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != second.ID || records[1].ID != first.ID {
		t.Fatalf("list order wrong: %s, %s", records[0].ID, records[1].ID)
	}

	limited, err := s.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != second.ID {
		t.Fatalf("limit not honored: %+v", limited)
	}
}

func TestDeleteRemovesItems(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	saved := testsupport.SaveAnalysis(t, s, "/videos/office.mov", sampleResponse())
	if err := s.Delete(context.Background(), saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := s.GetByID(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("record survived delete: %+v", got)
	}

	if err := s.Delete(context.Background(), "missing"); err != nil {
		t.Fatalf("deleting unknown id should be a no-op: %v", err)
	}
}

func TestSaveEmptyResponse(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	saved, err := s.Save(context.Background(), "/videos/blank.mov", analysis.EmptyResponse())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.DetectedCount != 0 || len(saved.Items) != 0 {
		t.Fatalf("empty response round trip: %+v", saved)
	}
	if saved.AnalysisType != analysis.AnalysisTypeMultiItem {
		t.Fatalf("analysis type %q", saved.AnalysisType)
	}
}

func TestOpenCreatesDatabaseFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(s.Path()); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}

package analysis

import "testing"

func batch(offset int, confidence float64, items ...ItemDetails) BatchResult {
	return BatchResult{
		Response: MultiItemAnalysisResponse{
			Items:         items,
			DetectedCount: len(items),
			AnalysisType:  AnalysisTypeMultiItem,
			Confidence:    confidence,
		},
		BatchOffset: offset,
	}
}

func TestDeduplicateEmptyInput(t *testing.T) {
	got := NewDeduplicator().Deduplicate(nil)
	if got.DetectedCount != 0 || len(got.Items) != 0 {
		t.Fatalf("expected empty response, got %+v", got)
	}
	if got.AnalysisType != AnalysisTypeMultiItem {
		t.Fatalf("analysis type %q", got.AnalysisType)
	}
	if got.Confidence != 0.0 {
		t.Fatalf("confidence %v, want 0.0", got.Confidence)
	}
}

func TestDeduplicateSingleBatchPassesThrough(t *testing.T) {
	lamp := ItemDetails{Title: "Desk Lamp", Category: "Lighting", Confidence: 0.9}
	radio := ItemDetails{Title: "Old Radio", Category: "Electronics", Confidence: 0.7}
	got := NewDeduplicator().Deduplicate([]BatchResult{batch(0, 0.8, lamp, radio)})

	if got.DetectedCount != 2 {
		t.Fatalf("detected count %d, want 2", got.DetectedCount)
	}
	if got.Items[0].Title != "Desk Lamp" || got.Items[1].Title != "Old Radio" {
		t.Fatalf("items out of order: %+v", got.Items)
	}
	if got.Confidence != 0.8 {
		t.Fatalf("confidence %v, want 0.8", got.Confidence)
	}
}

func TestDeduplicateMergesFoldedTitlesAcrossBatches(t *testing.T) {
	first := batch(0, 0.8,
		ItemDetails{Title: "Desk Lamp", Category: "Lighting", Confidence: 0.6},
	)
	second := batch(5, 0.6,
		ItemDetails{Title: "desk  lamp", Description: "brass, articulated arm", Confidence: 0.9},
		ItemDetails{Title: "Bookshelf", Category: "Furniture", Confidence: 0.8},
	)
	got := NewDeduplicator().Deduplicate([]BatchResult{first, second})

	if got.DetectedCount != 2 {
		t.Fatalf("detected count %d, want 2: %+v", got.DetectedCount, got.Items)
	}
	lamp := got.Items[0]
	if lamp.Title != "Desk Lamp" {
		t.Fatalf("first sighting must keep its title, got %q", lamp.Title)
	}
	if lamp.Category != "Lighting" || lamp.Description != "brass, articulated arm" {
		t.Fatalf("later sighting should only fill blanks: %+v", lamp)
	}
	if lamp.Confidence != 0.9 {
		t.Fatalf("item confidence %v, want the stronger sighting 0.9", lamp.Confidence)
	}
	if got.Confidence != 0.7 {
		t.Fatalf("response confidence %v, want mean 0.7", got.Confidence)
	}
}

func TestDeduplicateDropsUntitledItems(t *testing.T) {
	got := NewDeduplicator().Deduplicate([]BatchResult{
		batch(0, 0.5, ItemDetails{Title: "   ", Description: "unidentifiable blur"}),
	})
	if got.DetectedCount != 0 {
		t.Fatalf("untitled items must not survive the merge: %+v", got.Items)
	}
}

func TestDeduplicateGrowingPrefixNeverRegresses(t *testing.T) {
	batches := []BatchResult{
		batch(0, 0.9, ItemDetails{Title: "Desk Lamp", Confidence: 0.9}),
		batch(5, 0.8, ItemDetails{Title: "Bookshelf", Confidence: 0.8}),
		batch(10, 0.7,
			ItemDetails{Title: "DESK LAMP", Confidence: 0.5},
			ItemDetails{Title: "Floor Rug", Confidence: 0.7},
		),
	}

	dedup := NewDeduplicator()
	previous := 0
	for i := 1; i <= len(batches); i++ {
		got := dedup.Deduplicate(batches[:i])
		if got.DetectedCount < previous {
			t.Fatalf("prefix %d regressed: %d < %d", i, got.DetectedCount, previous)
		}
		previous = got.DetectedCount
	}
	if previous != 3 {
		t.Fatalf("final merge holds %d items, want 3", previous)
	}
}

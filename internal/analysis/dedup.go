package analysis

import (
	"strings"

	"golang.org/x/text/cases"
)

// Deduplicator merges per-batch detections into one consolidated response.
//
// Implementations must be pure and total: an empty input yields the empty
// response, a single-element input is returned equivalently merged, and
// calling with a growing prefix of the same ordered list never drops items
// confirmed by an earlier prefix.
type Deduplicator interface {
	Deduplicate(batchResults []BatchResult) MultiItemAnalysisResponse
}

// DefaultDeduplicator merges items across batches by case-folded title
// identity. The first sighting of a title wins field-wise; later sightings
// only fill fields the first left empty. Response confidence is the mean of
// the contributing batch confidences.
type DefaultDeduplicator struct {
	folder cases.Caser
}

// NewDeduplicator returns the default title-fold merge strategy.
func NewDeduplicator() *DefaultDeduplicator {
	return &DefaultDeduplicator{folder: cases.Fold()}
}

func (d *DefaultDeduplicator) Deduplicate(batchResults []BatchResult) MultiItemAnalysisResponse {
	merged := EmptyResponse()
	if len(batchResults) == 0 {
		return merged
	}

	index := make(map[string]int)
	confidenceSum := 0.0
	contributing := 0
	for _, batch := range batchResults {
		if !batch.Response.Empty() {
			confidenceSum += batch.Response.Confidence
			contributing++
		}
		for _, item := range batch.Response.Items {
			key := d.titleKey(item.Title)
			if key == "" {
				continue
			}
			at, seen := index[key]
			if !seen {
				index[key] = len(merged.Items)
				merged.Items = append(merged.Items, item)
				continue
			}
			fillMissing(&merged.Items[at], item)
		}
	}

	merged.DetectedCount = len(merged.Items)
	if contributing > 0 && merged.DetectedCount > 0 {
		merged.Confidence = confidenceSum / float64(contributing)
	}
	return merged
}

// titleKey collapses inner whitespace and case-folds, so "Desk Lamp" and
// "desk  lamp" identify the same physical item.
func (d *DefaultDeduplicator) titleKey(title string) string {
	collapsed := strings.Join(strings.Fields(title), " ")
	return d.folder.String(collapsed)
}

func fillMissing(kept *ItemDetails, next ItemDetails) {
	if kept.Description == "" {
		kept.Description = next.Description
	}
	if kept.Category == "" {
		kept.Category = next.Category
	}
	if kept.Location == "" {
		kept.Location = next.Location
	}
	if kept.Make == "" {
		kept.Make = next.Make
	}
	if kept.Model == "" {
		kept.Model = next.Model
	}
	if kept.Condition == "" {
		kept.Condition = next.Condition
	}
	if kept.EstimatedPrice == "" {
		kept.EstimatedPrice = next.EstimatedPrice
	}
	if kept.Quantity == 0 {
		kept.Quantity = next.Quantity
	}
	if next.Confidence > kept.Confidence {
		kept.Confidence = next.Confidence
	}
}

// Package analysis defines the item-detection data model shared by the vision
// client, the coordinator, and the CLI, plus the cross-batch deduplication
// strategy that folds per-batch detections into one consolidated response.
package analysis

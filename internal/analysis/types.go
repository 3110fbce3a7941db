package analysis

// AnalysisTypeMultiItem is the only analysis type this pipeline produces.
const AnalysisTypeMultiItem = "multi_item"

// ItemDetails describes one detected inventory item. String fields may be
// empty when the model could not determine them.
type ItemDetails struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	Location       string  `json:"location"`
	Make           string  `json:"make,omitempty"`
	Model          string  `json:"model,omitempty"`
	Condition      string  `json:"condition,omitempty"`
	EstimatedPrice string  `json:"estimatedPrice,omitempty"`
	Quantity       int     `json:"quantity"`
	Confidence     float64 `json:"confidence"`
}

// MultiItemAnalysisResponse is the unit returned by the vision service per
// batch and produced as the final merged result. The same type serves as
// partial, per-batch, and final output.
type MultiItemAnalysisResponse struct {
	Items         []ItemDetails `json:"items"`
	DetectedCount int           `json:"detectedCount"`
	AnalysisType  string        `json:"analysisType"`
	Confidence    float64       `json:"confidence"`
}

// EmptyResponse returns the canonical zero-item response.
func EmptyResponse() MultiItemAnalysisResponse {
	return MultiItemAnalysisResponse{
		Items:         []ItemDetails{},
		DetectedCount: 0,
		AnalysisType:  AnalysisTypeMultiItem,
		Confidence:    0.0,
	}
}

// Empty reports whether the response carries no detections.
func (r MultiItemAnalysisResponse) Empty() bool {
	return len(r.Items) == 0
}

// BatchResult pairs one batch's response with the index of the batch's first
// frame within the full frame sequence.
type BatchResult struct {
	Response    MultiItemAnalysisResponse
	BatchOffset int
}

// Settings carries per-call analysis preferences forwarded to the vision
// service.
type Settings struct {
	Currency string
	Detail   string
}

// Context carries the labels and locations already known to the inventory, so
// detections can reuse existing names instead of inventing near-duplicates.
type Context struct {
	Labels    []string
	Locations []string
}

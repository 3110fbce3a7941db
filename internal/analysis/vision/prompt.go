package vision

import (
	"strings"

	"shelfscan/internal/analysis"
)

// systemPrompt captures the instructions sent to the vision model for every
// batch. Update this text centrally so every call stays in sync.
const systemPrompt = `You are an assistant that catalogs household items for a home inventory.

You are given several video frames captured while a person walks through a room, possibly with a transcript of their narration. Identify every distinct physical item worth tracking in an inventory.

Rules:

- List each physical item exactly once, even when it appears in several frames.
- Prefer the narration's wording for titles when the narration names an item.
- Reuse the provided category and location names when one fits; only invent a new name when nothing provided applies.
- Skip fixed parts of the building (walls, floors, built-in fixtures) and people.
- Estimate prices in the requested currency; leave the price empty when you cannot estimate.

You must respond ONLY with a JSON object like:
{"items": [{"title": "Desk Lamp", "description": "brass articulated desk lamp", "category": "Lighting", "location": "Office", "make": "", "model": "", "condition": "good", "estimatedPrice": "45", "quantity": 1, "confidence": 0.9}], "detectedCount": 1, "analysisType": "multi_item", "confidence": 0.9}`

// buildUserText assembles the per-batch user message: analysis preferences,
// the known labels and locations, and the narration aligned with this batch's
// frames.
func buildUserText(settings analysis.Settings, appContext analysis.Context, narration *string) string {
	var b strings.Builder
	b.WriteString("Analyze the attached frames.")
	if settings.Currency != "" {
		b.WriteString("\nEstimate prices in ")
		b.WriteString(settings.Currency)
		b.WriteString(".")
	}
	if len(appContext.Labels) > 0 {
		b.WriteString("\nKnown categories: ")
		b.WriteString(strings.Join(appContext.Labels, ", "))
	}
	if len(appContext.Locations) > 0 {
		b.WriteString("\nKnown locations: ")
		b.WriteString(strings.Join(appContext.Locations, ", "))
	}
	if narration != nil && strings.TrimSpace(*narration) != "" {
		b.WriteString("\nNarration for these frames: ")
		b.WriteString(strings.TrimSpace(*narration))
	}
	return b.String()
}

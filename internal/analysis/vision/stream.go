package vision

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"shelfscan/internal/analysis"
)

// partialAccumulator collects streamed content deltas and surfaces a partial
// response each time a further complete item object closes inside the
// "items" array. Emissions carry only fully parsed items, so a consumer can
// treat every partial as a valid (if incomplete) response.
type partialAccumulator struct {
	buf     strings.Builder
	emitted int
	emit    func(analysis.MultiItemAnalysisResponse)
}

func newPartialAccumulator(emit func(analysis.MultiItemAnalysisResponse)) *partialAccumulator {
	return &partialAccumulator{emit: emit}
}

func (a *partialAccumulator) append(delta string) {
	if delta == "" {
		return
	}
	a.buf.WriteString(delta)
	if a.emit == nil {
		return
	}
	items := completeItems(a.buf.String())
	if len(items) <= a.emitted {
		return
	}
	a.emitted = len(items)
	a.emit(analysis.MultiItemAnalysisResponse{
		Items:         items,
		DetectedCount: len(items),
		AnalysisType:  analysis.AnalysisTypeMultiItem,
	})
}

func (a *partialAccumulator) content() string {
	return a.buf.String()
}

// completeItems parses every balanced object inside the "items" array of a
// possibly truncated JSON document. Unparseable objects are skipped rather
// than aborting the scan.
func completeItems(content string) []analysis.ItemDetails {
	idx := strings.Index(content, `"items"`)
	if idx < 0 {
		return nil
	}
	rest := content[idx+len(`"items"`):]
	start := strings.Index(rest, "[")
	if start < 0 {
		return nil
	}
	rest = rest[start+1:]

	var items []analysis.ItemDetails
	depth := 0
	objStart := -1
	inString := false
	escaped := false
	for i := 0; i < len(rest); i++ {
		ch := rest[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				objStart = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 && objStart >= 0 {
				var item analysis.ItemDetails
				if err := json.Unmarshal([]byte(rest[objStart:i+1]), &item); err == nil {
					items = append(items, item)
				}
				objStart = -1
			}
		case ']':
			if depth == 0 {
				return items
			}
		}
	}
	return items
}

// DecodeModelJSON decodes JSON from a model response, tolerating code fences
// and leading or trailing prose around the payload.
func DecodeModelJSON(content string, target any) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return errors.New("empty payload")
	}

	directErr := json.Unmarshal([]byte(trimmed), target)
	if directErr == nil {
		return nil
	}

	sanitized := sanitizeJSONPayload(trimmed)
	if sanitized == "" || sanitized == trimmed {
		return fmt.Errorf("%w (payload snippet: %s)", directErr, payloadSnippet(trimmed))
	}
	if err := json.Unmarshal([]byte(sanitized), target); err != nil {
		return fmt.Errorf("%w (sanitized payload snippet: %s)", err, payloadSnippet(sanitized))
	}
	return nil
}

func sanitizeJSONPayload(content string) string {
	trimmed := strings.TrimSpace(stripCodeFence(content))
	if trimmed == "" {
		return ""
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return trimmed
	}
	if start := strings.Index(trimmed, "{"); start >= 0 {
		if end := strings.LastIndex(trimmed, "}"); end > start {
			return strings.TrimSpace(trimmed[start : end+1])
		}
	}
	return trimmed
}

func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := strings.TrimLeft(trimmed[3:], " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = strings.TrimLeft(body[4:], " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func payloadSnippet(content string) string {
	clean := strings.Join(strings.Fields(content), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	if clean == "" {
		return "<empty>"
	}
	return clean
}

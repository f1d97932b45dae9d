package organizer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// rawSuggestion mirrors one object of the instructed reply format.
type rawSuggestion struct {
	BookmarkID        string   `json:"bookmarkId"`
	SuggestedCategory string   `json:"suggestedCategory"`
	Confidence        float64  `json:"confidence"`
	Reasoning         string   `json:"reasoning"`
	Tags              []string `json:"tags"`
}

var (
	fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

	// Rescue patterns for a single loose object when strict parsing fails.
	rescueIDRe         = regexp.MustCompile(`"bookmarkId"\s*:\s*"([^"]+)"`)
	rescueCategoryRe   = regexp.MustCompile(`"suggestedCategory"\s*:\s*"([^"]+)"`)
	rescueConfidenceRe = regexp.MustCompile(`"confidence"\s*:\s*(-?[0-9.]+)`)
	rescueReasoningRe  = regexp.MustCompile(`"reasoning"\s*:\s*"([^"]*)"`)
)

// parseSuggestions turns raw model output into suggestions. Model output is
// not a validated machine interface, so parsing is two-tier: a strict JSON
// array parse (unwrapping a fenced code block if present), then a
// best-effort regex rescue that recovers a single-object shape.
func parseSuggestions(text string) ([]rawSuggestion, error) {
	candidate := extractJSONArray(text)
	if candidate != "" {
		var parsed []rawSuggestion
		if err := json.Unmarshal([]byte(candidate), &parsed); err == nil {
			return parsed, nil
		}
	}

	if s, ok := rescueSingleObject(text); ok {
		return []rawSuggestion{s}, nil
	}

	return nil, fmt.Errorf("no JSON suggestions found in response (%d bytes)", len(text))
}

// extractJSONArray pulls the most plausible JSON array out of the text:
// the inside of a fenced code block when present, otherwise the span from
// the first '[' to the last ']'.
func extractJSONArray(text string) string {
	if m := fencedBlockRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}

func rescueSingleObject(text string) (rawSuggestion, bool) {
	id := rescueIDRe.FindStringSubmatch(text)
	category := rescueCategoryRe.FindStringSubmatch(text)
	if id == nil || category == nil {
		return rawSuggestion{}, false
	}

	s := rawSuggestion{BookmarkID: id[1], SuggestedCategory: category[1]}
	if m := rescueConfidenceRe.FindStringSubmatch(text); m != nil {
		fmt.Sscanf(m[1], "%f", &s.Confidence)
	}
	if m := rescueReasoningRe.FindStringSubmatch(text); m != nil {
		s.Reasoning = m[1]
	}
	return s, true
}

// clampConfidence forces a confidence into [0, 1]. Models occasionally
// return 1.5 or negative numbers.
func clampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}

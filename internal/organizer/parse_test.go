package organizer

import "testing"

func TestParseSuggestionsPlainArray(t *testing.T) {
	text := `[{"bookmarkId":"b1","suggestedCategory":"Dev","confidence":0.9,"reasoning":"tooling","tags":["go"]}]`

	got, err := parseSuggestions(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].BookmarkID != "b1" || got[0].SuggestedCategory != "Dev" {
		t.Errorf("parsed = %+v", got)
	}
}

func TestParseSuggestionsFencedCodeBlock(t *testing.T) {
	text := "Here are the results:\n```json\n[\n {\"bookmarkId\":\"b1\",\"suggestedCategory\":\"A\",\"confidence\":0.8,\"reasoning\":\"\"},\n {\"bookmarkId\":\"b2\",\"suggestedCategory\":\"B\",\"confidence\":0.7,\"reasoning\":\"\"}\n]\n```\nLet me know if you need more."

	got, err := parseSuggestions(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("parsed %d entries, want 2", len(got))
	}
	// Order preserved.
	if got[0].BookmarkID != "b1" || got[1].BookmarkID != "b2" {
		t.Errorf("order = %s, %s", got[0].BookmarkID, got[1].BookmarkID)
	}
}

func TestParseSuggestionsProseWrappedArray(t *testing.T) {
	text := `Sure! The categorization is [{"bookmarkId":"b1","suggestedCategory":"News","confidence":1,"reasoning":"r"}] as requested.`

	got, err := parseSuggestions(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].SuggestedCategory != "News" {
		t.Errorf("parsed = %+v", got)
	}
}

func TestParseSuggestionsSingleObjectRescue(t *testing.T) {
	// No array at all; the regex tier recovers the single object.
	text := `{"bookmarkId": "b7", "suggestedCategory": "Reading", "confidence": 0.65, "reasoning": "long form"}`

	got, err := parseSuggestions(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("parsed %d entries, want 1", len(got))
	}
	s := got[0]
	if s.BookmarkID != "b7" || s.SuggestedCategory != "Reading" || s.Confidence != 0.65 || s.Reasoning != "long form" {
		t.Errorf("rescued = %+v", s)
	}
}

func TestParseSuggestionsGarbage(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "prose only", in: "I could not categorize these bookmarks."},
		{name: "empty", in: ""},
		{name: "broken json without ids", in: `[{"category": "oops"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseSuggestions(tt.in); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.5, 1.0},
		{-0.2, 0.0},
		{0.42, 0.42},
		{0, 0},
		{1, 1},
	}
	for _, tt := range tests {
		if got := clampConfidence(tt.in); got != tt.want {
			t.Errorf("clampConfidence(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

package domain

import (
	"reflect"
	"testing"
)

func TestSynthesizeFolders(t *testing.T) {
	tests := []struct {
		name        string
		suggestions []OrganizationSuggestion
		hierarchy   bool
		want        []string
	}{
		{
			name: "hierarchy emits every prefix",
			suggestions: []OrganizationSuggestion{
				{SuggestedCategory: "A/B/C"},
			},
			hierarchy: true,
			want:      []string{"A", "A/B", "A/B/C"},
		},
		{
			name: "flat emits full paths only",
			suggestions: []OrganizationSuggestion{
				{SuggestedCategory: "A/B/C"},
				{SuggestedCategory: "D"},
			},
			hierarchy: false,
			want:      []string{"A/B/C", "D"},
		},
		{
			name: "deduplicated and sorted",
			suggestions: []OrganizationSuggestion{
				{SuggestedCategory: "Z"},
				{SuggestedCategory: "A/B"},
				{SuggestedCategory: "A/C"},
				{SuggestedCategory: "Z"},
			},
			hierarchy: true,
			want:      []string{"A", "A/B", "A/C", "Z"},
		},
		{
			name: "empty categories ignored",
			suggestions: []OrganizationSuggestion{
				{SuggestedCategory: ""},
				{SuggestedCategory: "/"},
			},
			hierarchy: true,
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SynthesizeFolders(tt.suggestions, tt.hierarchy)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SynthesizeFolders() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIdentifyConflicts(t *testing.T) {
	bookmarks := ExtractBookmarks(sampleTree())

	// b2 already sits in Dev, b3 mismatches at low confidence, and
	// "ghost" is not in the tree.
	suggestions := []OrganizationSuggestion{
		{BookmarkID: "b2", SuggestedCategory: "Dev", Confidence: 0.9},
		{BookmarkID: "b3", SuggestedCategory: "Infrastructure", Confidence: 0.4},
		{BookmarkID: "ghost", SuggestedCategory: "Anywhere", Confidence: 1},
	}

	conflicts := IdentifyConflicts(bookmarks, suggestions)

	if len(conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1", len(conflicts))
	}
	c := conflicts[0]
	if c.BookmarkID != "b3" || c.CurrentCategory != "Dev/Cloud" || c.SuggestedCategory != "Infrastructure" {
		t.Errorf("conflict = %+v", c)
	}
	// No confidence gate: even 0.4 is reported.
	if c.Confidence != 0.4 {
		t.Errorf("confidence = %f, want 0.4", c.Confidence)
	}
}

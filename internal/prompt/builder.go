// Package prompt renders the textual instruction sent to a model for one
// batch of bookmarks. The format contract here is instruction-only; the
// organizer's parser stays defensive about what actually comes back.
package prompt

import (
	"fmt"
	"strings"

	"tidymark/internal/domain"
)

// Options control what the model is asked to produce.
type Options struct {
	MaxDepth        int
	CreateHierarchy bool
	GenerateTags    bool
}

// Build produces the prompt for one batch. Every bookmark's id is echoed
// verbatim; the downstream parser matches suggestions back by exact id. The
// existing folder structure is included so the model reuses folders instead
// of minting near-duplicates.
func Build(bookmarks []*domain.BookmarkNode, existingStructureJSON string, opts Options) string {
	var b strings.Builder

	b.WriteString("You are organizing browser bookmarks into a folder hierarchy.\n\n")

	b.WriteString("Existing folder structure (JSON):\n")
	if existingStructureJSON == "" {
		existingStructureJSON = "[]"
	}
	b.WriteString(existingStructureJSON)
	b.WriteString("\n\nBookmarks to categorize:\n")

	for i, bm := range bookmarks {
		fmt.Fprintf(&b, "%d. id: %s\n   title: %s\n   url: %s\n", i+1, bm.ID, bm.Title, bm.URL)
		if len(bm.Tags) > 0 {
			fmt.Fprintf(&b, "   tags: %s\n", strings.Join(bm.Tags, ", "))
		}
	}

	b.WriteString("\nInstructions:\n")
	b.WriteString("- Assign every bookmark a category path, segments separated by \"" + domain.PathDelimiter + "\".\n")
	b.WriteString("- STRONGLY prefer existing folders over new ones. Only create a new folder when nothing existing fits; never create a folder whose meaning duplicates an existing one.\n")
	if opts.CreateHierarchy {
		depth := opts.MaxDepth
		if depth <= 0 {
			depth = 3
		}
		fmt.Fprintf(&b, "- Category paths may be hierarchical, at most %d levels deep.\n", depth)
	} else {
		b.WriteString("- Use a single flat category per bookmark, no nesting.\n")
	}
	if opts.GenerateTags {
		b.WriteString("- Suggest up to 3 lowercase tags per bookmark.\n")
	} else {
		b.WriteString("- Return an empty tags array for every bookmark.\n")
	}

	b.WriteString("\nRespond with ONLY a JSON array, no prose, one object per bookmark, in input order:\n")
	b.WriteString(`[{"bookmarkId": "<id exactly as given above>", "suggestedCategory": "Folder` +
		domain.PathDelimiter + `Subfolder", "confidence": 0.0-1.0, "reasoning": "short explanation", "tags": ["tag"]}]` + "\n")

	return b.String()
}

package domain

// IdentifyConflicts compares each suggestion against the bookmark's current
// folder path. Every mismatch is reported, regardless of confidence; the
// consumer decides what is significant.
func IdentifyConflicts(bookmarks []FlatBookmark, suggestions []OrganizationSuggestion) []OrganizationConflict {
	current := make(map[string]string, len(bookmarks))
	for _, fb := range bookmarks {
		current[fb.Node.ID] = fb.PathString()
	}

	var conflicts []OrganizationConflict
	for _, s := range suggestions {
		path, ok := current[s.BookmarkID]
		if !ok {
			continue
		}
		if path != s.SuggestedCategory {
			conflicts = append(conflicts, OrganizationConflict{
				BookmarkID:        s.BookmarkID,
				CurrentCategory:   path,
				SuggestedCategory: s.SuggestedCategory,
				Confidence:        s.Confidence,
			})
		}
	}
	return conflicts
}

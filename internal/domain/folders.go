package domain

import "sort"

// SynthesizeFolders derives the sorted set of folder paths implied by the
// suggestions. With hierarchy enabled every path prefix is included, so
// "A/B/C" contributes "A", "A/B" and "A/B/C"; otherwise only the full
// category strings are returned.
func SynthesizeFolders(suggestions []OrganizationSuggestion, createHierarchy bool) []string {
	set := make(map[string]bool)
	for _, s := range suggestions {
		segments := SplitPath(s.SuggestedCategory)
		if len(segments) == 0 {
			continue
		}
		if createHierarchy {
			for i := 1; i <= len(segments); i++ {
				set[JoinPath(segments[:i])] = true
			}
		} else {
			set[JoinPath(segments)] = true
		}
	}

	paths := make([]string, 0, len(set))
	for p := range set {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

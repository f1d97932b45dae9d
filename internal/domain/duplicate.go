package domain

import (
	"net/url"
	"sort"
	"strings"
)

// MergeStrategy tags how a duplicate group should be resolved downstream.
// Only keep_primary selection is implemented here; the tag is carried for
// consumers that want a different resolution.
type MergeStrategy string

const (
	MergeKeepPrimary MergeStrategy = "keep_primary"
	MergeKeepNewest  MergeStrategy = "keep_newest"
	MergeManual      MergeStrategy = "manual"
)

// DuplicateGroup is one cluster of bookmarks considered duplicates of each
// other. Primary is the bookmark to retain; Duplicates are candidates for
// removal, in detection order.
type DuplicateGroup struct {
	Primary    *BookmarkNode   `json:"primary"`
	Duplicates []*BookmarkNode `json:"duplicates"`
	Strategy   MergeStrategy   `json:"mergeStrategy"`
}

// DetectDuplicates runs two independent passes over the tree's bookmarks and
// returns the concatenation of both passes' groups: an exact-URL pass and a
// domain-grouped heuristic pass.
//
// The passes are not reconciled against each other, so a pair of bookmarks
// can appear in a group from each pass. Callers must treat the result as a
// union with possible overlap.
func DetectDuplicates(roots []*BookmarkNode) []DuplicateGroup {
	var bookmarks []*BookmarkNode
	for _, fb := range ExtractBookmarks(roots) {
		bookmarks = append(bookmarks, fb.Node)
	}

	groups := exactURLPass(bookmarks)
	groups = append(groups, domainPass(bookmarks)...)
	return groups
}

// exactURLPass groups bookmarks by case-insensitive, trimmed URL. The
// primary of each group is the member with the highest metadata score,
// ties broken by input order.
func exactURLPass(bookmarks []*BookmarkNode) []DuplicateGroup {
	byURL := make(map[string][]*BookmarkNode)
	var order []string
	for _, b := range bookmarks {
		key := strings.ToLower(strings.TrimSpace(b.URL))
		if key == "" {
			continue
		}
		if _, seen := byURL[key]; !seen {
			order = append(order, key)
		}
		byURL[key] = append(byURL[key], b)
	}

	var groups []DuplicateGroup
	for _, key := range order {
		members := byURL[key]
		if len(members) < 2 {
			continue
		}
		primary := members[0]
		best := metadataScore(primary)
		for _, m := range members[1:] {
			if s := metadataScore(m); s > best {
				primary, best = m, s
			}
		}
		group := DuplicateGroup{Primary: primary, Strategy: MergeKeepPrimary}
		for _, m := range members {
			if m != primary {
				group.Duplicates = append(group.Duplicates, m)
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// domainPass groups bookmarks by URL hostname. Within a group the members
// are ordered by URL length ascending, then title length descending, then
// tag count descending; the first is primary.
func domainPass(bookmarks []*BookmarkNode) []DuplicateGroup {
	byHost := make(map[string][]*BookmarkNode)
	var order []string
	for _, b := range bookmarks {
		u, err := url.Parse(strings.TrimSpace(b.URL))
		if err != nil || u.Hostname() == "" {
			// Unparseable URLs are skipped, not errored.
			continue
		}
		host := strings.ToLower(u.Hostname())
		if _, seen := byHost[host]; !seen {
			order = append(order, host)
		}
		byHost[host] = append(byHost[host], b)
	}

	var groups []DuplicateGroup
	for _, host := range order {
		members := byHost[host]
		if len(members) < 2 {
			continue
		}
		sorted := append([]*BookmarkNode(nil), members...)
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sorted[i], sorted[j]
			if len(a.URL) != len(b.URL) {
				return len(a.URL) < len(b.URL)
			}
			if len(a.Title) != len(b.Title) {
				return len(a.Title) > len(b.Title)
			}
			return len(a.Tags) > len(b.Tags)
		})
		groups = append(groups, DuplicateGroup{
			Primary:    sorted[0],
			Duplicates: sorted[1:],
			Strategy:   MergeKeepPrimary,
		})
	}
	return groups
}

// metadataScore measures how complete a bookmark's metadata is.
// Title counts double; tags, add date and icon count once each.
func metadataScore(b *BookmarkNode) int {
	score := 0
	if b.Title != "" {
		score += 2
	}
	if len(b.Tags) > 0 {
		score++
	}
	if b.AddDate != nil {
		score++
	}
	if b.Icon != "" {
		score++
	}
	return score
}

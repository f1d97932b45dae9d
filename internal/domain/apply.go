package domain

import "github.com/google/uuid"

// DuplicateHandling controls what ApplyOrganizationPlan does with the
// plan's duplicate groups.
type DuplicateHandling string

const (
	// DuplicatesKeep leaves every bookmark in place.
	DuplicatesKeep DuplicateHandling = "keep"
	// DuplicatesMerge removes every bookmark listed as a duplicate,
	// keeping each group's primary.
	DuplicatesMerge DuplicateHandling = "merge"
)

// ApplyOptions tunes plan application.
type ApplyOptions struct {
	HandleDuplicates DuplicateHandling
	// ApplyTags replaces a moved bookmark's tags with the suggestion's
	// tags when the suggestion carries any.
	ApplyTags bool
}

// ApplyOrganizationPlan produces a new tree from the original tree and an
// approved plan. The input tree is never mutated. The order of operations
// is fixed: duplicate removal, then suggestion moves (creating folders as
// needed), then materialization of the plan's remaining new folders.
//
// Every bookmark id present in the input remains present in the output
// unless removed as a duplicate, no bookmark is ever duplicated, and
// re-applying the same plan is a no-op on bookmark placement.
func ApplyOrganizationPlan(roots []*BookmarkNode, plan *OrganizationPlan, opts ApplyOptions) []*BookmarkNode {
	// Pseudo-root folder so root-level edits need no special casing.
	root := &BookmarkNode{Kind: KindFolder, Children: CopyTree(roots)}

	if opts.HandleDuplicates == DuplicatesMerge {
		doomed := make(map[string]bool)
		for _, g := range plan.Duplicates {
			for _, d := range g.Duplicates {
				doomed[d.ID] = true
			}
		}
		removeBookmarks(root, doomed)
	}

	// Current placement, indexed once: moving one bookmark never changes
	// another bookmark's folder path.
	placement := make(map[string]FlatBookmark)
	for _, fb := range ExtractBookmarks(root.Children) {
		placement[fb.Node.ID] = fb
	}

	for _, s := range plan.Suggestions {
		fb, ok := placement[s.BookmarkID]
		if !ok {
			// Removed as a duplicate, or never in this tree.
			continue
		}
		target := SplitPath(s.SuggestedCategory)
		if JoinPath(target) == fb.PathString() {
			continue
		}
		detachBookmark(root, s.BookmarkID)
		dest := ensureFolderPath(root, target)
		node := fb.Node
		if opts.ApplyTags && len(s.SuggestedTags) > 0 {
			node.Tags = append([]string(nil), s.SuggestedTags...)
		}
		dest.Children = append(dest.Children, node)
	}

	for _, path := range plan.NewFolders {
		ensureFolderPath(root, SplitPath(path))
	}

	return root.Children
}

// removeBookmarks prunes every bookmark whose id is in doomed,
// recursively, preserving the order of survivors.
func removeBookmarks(folder *BookmarkNode, doomed map[string]bool) {
	kept := folder.Children[:0]
	for _, child := range folder.Children {
		if child.IsBookmark() && doomed[child.ID] {
			continue
		}
		if child.IsFolder() {
			removeBookmarks(child, doomed)
		}
		kept = append(kept, child)
	}
	folder.Children = kept
}

// detachBookmark removes the bookmark with the given id from wherever it
// sits and returns it, or nil if absent.
func detachBookmark(folder *BookmarkNode, id string) *BookmarkNode {
	for i, child := range folder.Children {
		if child.IsBookmark() && child.ID == id {
			folder.Children = append(folder.Children[:i], folder.Children[i+1:]...)
			return child
		}
		if child.IsFolder() {
			if found := detachBookmark(child, id); found != nil {
				return found
			}
		}
	}
	return nil
}

// ensureFolderPath walks the path from root, matching folders by exact name
// (first match wins) and appending a new folder as the last child where no
// match exists. Returns the folder at the end of the path.
func ensureFolderPath(root *BookmarkNode, path []string) *BookmarkNode {
	current := root
	for _, name := range path {
		var next *BookmarkNode
		for _, child := range current.Children {
			if child.IsFolder() && child.Name == name {
				next = child
				break
			}
		}
		if next == nil {
			next = &BookmarkNode{
				ID:   uuid.NewString(),
				Kind: KindFolder,
				Name: name,
			}
			current.Children = append(current.Children, next)
		}
		current = next
	}
	return current
}

package domain

import "encoding/json"

// FlatBookmark pairs a bookmark node with the folder path it currently
// sits in (folder names, root first, empty for root-level bookmarks).
type FlatBookmark struct {
	Node *BookmarkNode
	Path []string
}

// PathString returns the bookmark's current folder path as a category string.
func (f FlatBookmark) PathString() string { return JoinPath(f.Path) }

// ExtractBookmarks walks the tree depth-first and returns every bookmark
// leaf together with its containing folder path. Order matches display
// order, so concatenated batches reconstruct the tree's bookmark sequence.
func ExtractBookmarks(roots []*BookmarkNode) []FlatBookmark {
	var out []FlatBookmark
	var walk func(nodes []*BookmarkNode, path []string)
	walk = func(nodes []*BookmarkNode, path []string) {
		for _, n := range nodes {
			switch {
			case n.IsBookmark():
				p := append([]string(nil), path...)
				out = append(out, FlatBookmark{Node: n, Path: p})
			case n.IsFolder():
				walk(n.Children, append(path, n.Name))
			}
		}
	}
	walk(roots, nil)
	return out
}

// folderShape mirrors the folder-name hierarchy of a tree, without
// bookmarks. It is what the model sees as "existing structure".
type folderShape struct {
	Name    string        `json:"name"`
	Folders []folderShape `json:"folders,omitempty"`
}

// FolderStructureJSON serializes the folder-name hierarchy of the tree.
// Built once per organization run; every batch sees the same snapshot.
func FolderStructureJSON(roots []*BookmarkNode) (string, error) {
	shapes := folderShapes(roots)
	if shapes == nil {
		shapes = []folderShape{}
	}
	data, err := json.Marshal(shapes)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func folderShapes(nodes []*BookmarkNode) []folderShape {
	var out []folderShape
	for _, n := range nodes {
		if !n.IsFolder() {
			continue
		}
		out = append(out, folderShape{
			Name:    n.Name,
			Folders: folderShapes(n.Children),
		})
	}
	return out
}

// CollectBookmarkIDs returns the set of bookmark ids present in the tree.
func CollectBookmarkIDs(roots []*BookmarkNode) map[string]bool {
	ids := make(map[string]bool)
	for _, fb := range ExtractBookmarks(roots) {
		ids[fb.Node.ID] = true
	}
	return ids
}

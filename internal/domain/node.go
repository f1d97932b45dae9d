package domain

import (
	"strings"
	"time"
)

// PathDelimiter separates folder names in a category path string.
// Example: "Development/Go/Tooling"
const PathDelimiter = "/"

// NodeKind discriminates the two node variants of the bookmark tree.
type NodeKind string

const (
	KindBookmark NodeKind = "bookmark"
	KindFolder   NodeKind = "folder"
)

// BookmarkNode is one node of the bookmark tree.
// A node is either a bookmark (leaf, Title/URL/Tags set) or a folder
// (Name/Children set). Kind tells which variant it is.
//
// Invariants:
//   - IDs are unique across the whole tree.
//   - Every node is owned by exactly one parent (or the root sequence).
//   - Child order is display order and is preserved by all transformations
//     except a deliberate move.
type BookmarkNode struct {
	ID   string   `json:"id"`
	Kind NodeKind `json:"kind"`

	// Bookmark variant
	Title string   `json:"title,omitempty"`
	URL   string   `json:"url,omitempty"`
	Tags  []string `json:"tags,omitempty"`
	Icon  string   `json:"icon,omitempty"`

	// Folder variant
	Name     string          `json:"name,omitempty"`
	Children []*BookmarkNode `json:"children,omitempty"`

	AddDate      *time.Time `json:"addDate,omitempty"`
	LastModified *time.Time `json:"lastModified,omitempty"`
}

// IsFolder reports whether the node is a folder.
func (n *BookmarkNode) IsFolder() bool { return n.Kind == KindFolder }

// IsBookmark reports whether the node is a bookmark leaf.
func (n *BookmarkNode) IsBookmark() bool { return n.Kind == KindBookmark }

// DeepCopy returns a copy of the node and everything below it.
// The copy shares no slices or nodes with the original.
func (n *BookmarkNode) DeepCopy() *BookmarkNode {
	if n == nil {
		return nil
	}
	c := *n
	if n.Tags != nil {
		c.Tags = append([]string(nil), n.Tags...)
	}
	if n.AddDate != nil {
		t := *n.AddDate
		c.AddDate = &t
	}
	if n.LastModified != nil {
		t := *n.LastModified
		c.LastModified = &t
	}
	if n.Children != nil {
		c.Children = make([]*BookmarkNode, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.DeepCopy()
		}
	}
	return &c
}

// CopyTree deep-copies a root sequence.
func CopyTree(roots []*BookmarkNode) []*BookmarkNode {
	if roots == nil {
		return nil
	}
	out := make([]*BookmarkNode, len(roots))
	for i, n := range roots {
		out[i] = n.DeepCopy()
	}
	return out
}

// JoinPath joins folder names into a category path string.
func JoinPath(segments []string) string {
	return strings.Join(segments, PathDelimiter)
}

// SplitPath splits a category path string into folder names,
// dropping empty segments produced by stray delimiters.
func SplitPath(path string) []string {
	parts := strings.Split(path, PathDelimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

package domain

import (
	"reflect"
	"testing"
)

func bm(id, title, url string) *BookmarkNode {
	return &BookmarkNode{ID: id, Kind: KindBookmark, Title: title, URL: url}
}

func folder(id, name string, children ...*BookmarkNode) *BookmarkNode {
	return &BookmarkNode{ID: id, Kind: KindFolder, Name: name, Children: children}
}

func sampleTree() []*BookmarkNode {
	return []*BookmarkNode{
		bm("b1", "Go", "https://go.dev"),
		folder("f1", "Dev",
			bm("b2", "Chi", "https://github.com/go-chi/chi"),
			folder("f2", "Cloud",
				bm("b3", "AWS", "https://aws.amazon.com"),
			),
		),
		folder("f3", "News",
			bm("b4", "HN", "https://news.ycombinator.com"),
		),
	}
}

func TestExtractBookmarks(t *testing.T) {
	flat := ExtractBookmarks(sampleTree())

	gotIDs := make([]string, 0, len(flat))
	for _, fb := range flat {
		gotIDs = append(gotIDs, fb.Node.ID)
	}

	wantIDs := []string{"b1", "b2", "b3", "b4"}
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Fatalf("extracted ids = %v, want %v", gotIDs, wantIDs)
	}

	wantPaths := map[string]string{
		"b1": "",
		"b2": "Dev",
		"b3": "Dev/Cloud",
		"b4": "News",
	}
	for _, fb := range flat {
		if got := fb.PathString(); got != wantPaths[fb.Node.ID] {
			t.Errorf("path for %s = %q, want %q", fb.Node.ID, got, wantPaths[fb.Node.ID])
		}
	}
}

func TestExtractBookmarksNoDuplicateIDs(t *testing.T) {
	flat := ExtractBookmarks(sampleTree())
	seen := make(map[string]bool)
	for _, fb := range flat {
		if seen[fb.Node.ID] {
			t.Fatalf("id %s extracted twice", fb.Node.ID)
		}
		seen[fb.Node.ID] = true
	}
}

func TestFolderStructureJSON(t *testing.T) {
	got, err := FolderStructureJSON(sampleTree())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `[{"name":"Dev","folders":[{"name":"Cloud"}]},{"name":"News"}]`
	if got != want {
		t.Errorf("structure = %s, want %s", got, want)
	}
}

func TestFolderStructureJSONEmptyTree(t *testing.T) {
	got, err := FolderStructureJSON(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "[]" {
		t.Errorf("structure = %s, want []", got)
	}
}

func TestDeepCopyIsDetached(t *testing.T) {
	original := sampleTree()
	copied := CopyTree(original)

	copied[1].Children[0].Title = "changed"
	copied[1].Children = append(copied[1].Children, bm("b9", "New", "https://x.test"))

	if original[1].Children[0].Title != "Chi" {
		t.Error("mutating the copy leaked into the original title")
	}
	if len(original[1].Children) != 2 {
		t.Error("mutating the copy leaked into the original children")
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "simple", in: "A/B/C", want: []string{"A", "B", "C"}},
		{name: "empty", in: "", want: []string{}},
		{name: "stray delimiters", in: "/A//B/", want: []string{"A", "B"}},
		{name: "whitespace segments", in: " A / B ", want: []string{"A", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitPath(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitPath(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

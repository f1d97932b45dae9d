package domain

import (
	"reflect"
	"testing"
)

func planWith(suggestions []OrganizationSuggestion, dups []DuplicateGroup, newFolders []string) *OrganizationPlan {
	return &OrganizationPlan{
		ID:          "plan-1",
		Suggestions: suggestions,
		Duplicates:  dups,
		NewFolders:  newFolders,
	}
}

func TestApplyMovesBookmarkCreatingFolders(t *testing.T) {
	tree := []*BookmarkNode{bm("b1", "Go", "https://go.dev")}
	plan := planWith([]OrganizationSuggestion{
		{BookmarkID: "b1", SuggestedCategory: "Dev/Languages", Confidence: 0.9},
	}, nil, nil)

	got := ApplyOrganizationPlan(tree, plan, ApplyOptions{})

	if len(got) != 1 || !got[0].IsFolder() || got[0].Name != "Dev" {
		t.Fatalf("root = %+v, want single folder Dev", got)
	}
	langs := got[0].Children[0]
	if !langs.IsFolder() || langs.Name != "Languages" {
		t.Fatalf("expected Languages under Dev, got %+v", langs)
	}
	if len(langs.Children) != 1 || langs.Children[0].ID != "b1" {
		t.Fatalf("b1 not under Dev/Languages: %+v", langs.Children)
	}
	// Original untouched.
	if !tree[0].IsBookmark() {
		t.Error("input tree was mutated")
	}
}

func TestApplyReusesExistingFolderByName(t *testing.T) {
	tree := []*BookmarkNode{
		folder("f1", "Dev", bm("b1", "Chi", "https://chi.test")),
		bm("b2", "Go", "https://go.dev"),
	}
	plan := planWith([]OrganizationSuggestion{
		{BookmarkID: "b2", SuggestedCategory: "Dev", Confidence: 1},
	}, nil, nil)

	got := ApplyOrganizationPlan(tree, plan, ApplyOptions{})

	if len(got) != 1 {
		t.Fatalf("root has %d nodes, want 1 (no second Dev folder)", len(got))
	}
	dev := got[0]
	if len(dev.Children) != 2 || dev.Children[1].ID != "b2" {
		t.Fatalf("b2 not appended to existing Dev folder: %+v", dev.Children)
	}
}

func TestApplyRemovesDuplicatesWhenMerging(t *testing.T) {
	dup := bm("b2", "Copy", "https://go.dev")
	tree := []*BookmarkNode{
		bm("b1", "Go", "https://go.dev"),
		folder("f1", "Old", dup),
	}
	plan := planWith(nil, []DuplicateGroup{
		{Primary: bm("b1", "Go", "https://go.dev"), Duplicates: []*BookmarkNode{dup}, Strategy: MergeKeepPrimary},
	}, nil)

	merged := ApplyOrganizationPlan(tree, plan, ApplyOptions{HandleDuplicates: DuplicatesMerge})
	if ids := CollectBookmarkIDs(merged); ids["b2"] || !ids["b1"] {
		t.Errorf("merged ids = %v, want b1 only", ids)
	}

	kept := ApplyOrganizationPlan(tree, plan, ApplyOptions{HandleDuplicates: DuplicatesKeep})
	if ids := CollectBookmarkIDs(kept); !ids["b2"] {
		t.Error("keep mode removed a duplicate")
	}
}

func TestApplyPreservesAllOtherBookmarks(t *testing.T) {
	tree := sampleTree()
	plan := planWith([]OrganizationSuggestion{
		{BookmarkID: "b3", SuggestedCategory: "Cloud Providers", Confidence: 0.8},
	}, nil, nil)

	got := ApplyOrganizationPlan(tree, plan, ApplyOptions{})

	want := CollectBookmarkIDs(tree)
	have := CollectBookmarkIDs(got)
	if !reflect.DeepEqual(want, have) {
		t.Errorf("bookmark ids changed: want %v, have %v", want, have)
	}
}

func TestApplyIsIdempotentOnPlacement(t *testing.T) {
	tree := sampleTree()
	plan := planWith([]OrganizationSuggestion{
		{BookmarkID: "b1", SuggestedCategory: "Dev", Confidence: 0.9},
		{BookmarkID: "b4", SuggestedCategory: "Reading/News", Confidence: 0.9},
	}, nil, []string{"Reading", "Reading/Archive"})

	once := ApplyOrganizationPlan(tree, plan, ApplyOptions{})
	twice := ApplyOrganizationPlan(once, plan, ApplyOptions{})

	paths := func(roots []*BookmarkNode) map[string]string {
		out := make(map[string]string)
		for _, fb := range ExtractBookmarks(roots) {
			out[fb.Node.ID] = fb.PathString()
		}
		return out
	}
	if !reflect.DeepEqual(paths(once), paths(twice)) {
		t.Errorf("second application moved bookmarks: %v vs %v", paths(once), paths(twice))
	}
}

func TestApplyMaterializesEmptyFolders(t *testing.T) {
	tree := []*BookmarkNode{}
	plan := planWith(nil, nil, []string{"Archive", "Archive/2024"})

	got := ApplyOrganizationPlan(tree, plan, ApplyOptions{})

	if len(got) != 1 || got[0].Name != "Archive" {
		t.Fatalf("root = %+v, want folder Archive", got)
	}
	if len(got[0].Children) != 1 || got[0].Children[0].Name != "2024" {
		t.Fatalf("Archive children = %+v, want folder 2024", got[0].Children)
	}
}

func TestApplySkipsOrphanSuggestions(t *testing.T) {
	tree := []*BookmarkNode{bm("b1", "Go", "https://go.dev")}
	plan := planWith([]OrganizationSuggestion{
		{BookmarkID: "ghost", SuggestedCategory: "Dev", Confidence: 1},
	}, nil, nil)

	got := ApplyOrganizationPlan(tree, plan, ApplyOptions{})

	if ids := CollectBookmarkIDs(got); len(ids) != 1 || !ids["b1"] {
		t.Errorf("ids = %v, want only b1", ids)
	}
}

func TestApplyTags(t *testing.T) {
	tree := []*BookmarkNode{bm("b1", "Go", "https://go.dev")}
	plan := planWith([]OrganizationSuggestion{
		{BookmarkID: "b1", SuggestedCategory: "Dev", Confidence: 1, SuggestedTags: []string{"go", "lang"}},
	}, nil, nil)

	got := ApplyOrganizationPlan(tree, plan, ApplyOptions{ApplyTags: true})

	flat := ExtractBookmarks(got)
	if len(flat) != 1 {
		t.Fatal("bookmark lost")
	}
	if want := []string{"go", "lang"}; !reflect.DeepEqual(flat[0].Node.Tags, want) {
		t.Errorf("tags = %v, want %v", flat[0].Node.Tags, want)
	}
}

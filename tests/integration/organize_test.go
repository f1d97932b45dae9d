package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"tidymark/internal/domain"
	"tidymark/internal/logger"
	"tidymark/internal/organizer"
	"tidymark/internal/provider"
	"tidymark/internal/registry"
)

var bookmarkIDRe = regexp.MustCompile(`id: (\S+)`)

// newModelServer stands in for an OpenAI-compatible endpoint: it reads
// the bookmark ids out of the prompt and answers with one suggestion
// per bookmark, routed by the categorize callback.
func newModelServer(t *testing.T, categorize func(id string) (category string, confidence float64)) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		var suggestions []map[string]any
		for _, m := range bookmarkIDRe.FindAllStringSubmatch(req.Messages[0].Content, -1) {
			category, confidence := categorize(m[1])
			suggestions = append(suggestions, map[string]any{
				"bookmarkId":        m[1],
				"suggestedCategory": category,
				"confidence":        confidence,
				"reasoning":         "categorized by topic",
			})
		}

		payload, _ := json.Marshal(suggestions)
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": string(payload)}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func bookmark(id, title, url string) *domain.BookmarkNode {
	return &domain.BookmarkNode{ID: id, Kind: domain.KindBookmark, Title: title, URL: url}
}

// TestOrganizePipeline runs the whole flow against a fake model
// endpoint: organize a flat tree, then apply the resulting plan and
// check the bookmarks actually moved.
func TestOrganizePipeline(t *testing.T) {
	server := newModelServer(t, func(id string) (string, float64) {
		switch id {
		case "b1", "b2":
			return "Development", 0.9
		default:
			return "News", 0.8
		}
	})
	defer server.Close()

	reg := registry.New()
	reg.UpsertConfig(&domain.AiConfig{
		ID:       "c1",
		Name:     "test-endpoint",
		Provider: domain.ProviderCustom,
		BaseURL:  server.URL,
		ModelID:  "test-model",
	})
	reg.UpsertGroup(&domain.AiConfigGroup{ID: "g1", Name: "pool", ConfigIDs: []string{"c1"}})

	engine := organizer.New(reg, provider.NewTransport(5*time.Second), logger.NewNop())

	roots := []*domain.BookmarkNode{
		bookmark("b1", "Go", "https://go.dev/"),
		bookmark("b2", "Rust", "https://rust-lang.org/"),
		bookmark("b3", "HN", "https://news.ycombinator.com/"),
	}

	plan, err := engine.Organize(context.Background(), roots, organizer.Options{
		Group:     "pool",
		BatchSize: 2,
	})
	if err != nil {
		t.Fatalf("Organize() error = %v", err)
	}

	if len(plan.Suggestions) != 3 {
		t.Fatalf("got %d suggestions, want 3", len(plan.Suggestions))
	}
	if plan.Metadata.TotalBatches != 2 || plan.Metadata.FailedBatches != 0 {
		t.Errorf("metadata = %+v", plan.Metadata)
	}

	wantFolders := map[string]bool{"Development": true, "News": true}
	for _, f := range plan.NewFolders {
		if !wantFolders[f] {
			t.Errorf("unexpected new folder %q", f)
		}
		delete(wantFolders, f)
	}
	if len(wantFolders) != 0 {
		t.Errorf("missing new folders: %v", wantFolders)
	}

	reorganized := domain.ApplyOrganizationPlan(roots, plan, domain.ApplyOptions{})

	paths := map[string]string{}
	for _, fb := range domain.ExtractBookmarks(reorganized) {
		paths[fb.Node.ID] = fb.PathString()
	}
	if paths["b1"] != "Development" || paths["b2"] != "Development" {
		t.Errorf("development bookmarks at %q and %q", paths["b1"], paths["b2"])
	}
	if paths["b3"] != "News" {
		t.Errorf("news bookmark at %q", paths["b3"])
	}

	// The input tree is never mutated by apply.
	for _, fb := range domain.ExtractBookmarks(roots) {
		if fb.PathString() != "" {
			t.Errorf("original tree was mutated: %s moved to %q", fb.Node.ID, fb.PathString())
		}
	}
}

// TestOrganizePipelineAuthFailure drives the real transport and error
// taxonomy: a 401 from the endpoint surfaces as a failed batch, not a
// failed run.
func TestOrganizePipelineAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	reg := registry.New()
	reg.UpsertConfig(&domain.AiConfig{
		ID:       "c1",
		Name:     "bad-key",
		Provider: domain.ProviderCustom,
		BaseURL:  server.URL,
		ModelID:  "test-model",
	})
	reg.UpsertGroup(&domain.AiConfigGroup{ID: "g1", Name: "pool", ConfigIDs: []string{"c1"}})

	engine := organizer.New(reg, provider.NewTransport(5*time.Second), logger.NewNop())

	plan, err := engine.Organize(context.Background(), []*domain.BookmarkNode{
		bookmark("b1", "Go", "https://go.dev/"),
	}, organizer.Options{Group: "pool"})
	if err != nil {
		t.Fatalf("per-batch auth failure must not reject the run: %v", err)
	}

	if len(plan.Suggestions) != 0 {
		t.Errorf("got %d suggestions from a failing endpoint", len(plan.Suggestions))
	}
	if plan.Metadata.FailedBatches != 1 {
		t.Errorf("failed batches = %d, want 1", plan.Metadata.FailedBatches)
	}

	var sawAuthError bool
	for _, entry := range engine.Status().Log {
		if entry.Level == organizer.LevelError {
			if code, ok := entry.Metadata["code"]; ok && code == string(provider.CodeAuth) {
				sawAuthError = true
			}
		}
	}
	if !sawAuthError {
		t.Error("auth failure not classified in the run log")
	}
}

// TestOrganizePipelineMultiLane checks the round-robin split across two
// endpoints with different opinions.
func TestOrganizePipelineMultiLane(t *testing.T) {
	serverA := newModelServer(t, func(string) (string, float64) { return "FromA", 0.9 })
	defer serverA.Close()
	serverB := newModelServer(t, func(string) (string, float64) { return "FromB", 0.9 })
	defer serverB.Close()

	reg := registry.New()
	reg.UpsertConfig(&domain.AiConfig{ID: "c1", Name: "a", Provider: domain.ProviderCustom, BaseURL: serverA.URL, ModelID: "m"})
	reg.UpsertConfig(&domain.AiConfig{ID: "c2", Name: "b", Provider: domain.ProviderCustom, BaseURL: serverB.URL, ModelID: "m"})
	reg.UpsertGroup(&domain.AiConfigGroup{ID: "g1", Name: "pool", ConfigIDs: []string{"c1", "c2"}})

	engine := organizer.New(reg, provider.NewTransport(5*time.Second), logger.NewNop())

	var roots []*domain.BookmarkNode
	for i := 1; i <= 4; i++ {
		roots = append(roots, bookmark(fmt.Sprintf("b%d", i), fmt.Sprintf("B%d", i), fmt.Sprintf("https://s%d.test/", i)))
	}

	plan, err := engine.Organize(context.Background(), roots, organizer.Options{Group: "pool", BatchSize: 1})
	if err != nil {
		t.Fatalf("Organize() error = %v", err)
	}

	counts := map[string]int{}
	for _, s := range plan.Suggestions {
		counts[s.SuggestedCategory]++
	}
	// Batches alternate lanes: even indexes hit endpoint a, odd hit b.
	if counts["FromA"] != 2 || counts["FromB"] != 2 {
		t.Errorf("lane split = %v, want 2/2", counts)
	}
}

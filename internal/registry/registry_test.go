package registry

import (
	"testing"
	"time"

	"tidymark/internal/domain"
)

func TestDeleteConfigCascadesIntoGroups(t *testing.T) {
	r := New()
	r.UpsertConfig(&domain.AiConfig{ID: "c1", Name: "one", Provider: domain.ProviderOpenAI})
	r.UpsertConfig(&domain.AiConfig{ID: "c2", Name: "two", Provider: domain.ProviderOllama})
	r.UpsertGroup(&domain.AiConfigGroup{ID: "g1", Name: "pool", ConfigIDs: []string{"c1", "c2"}})

	r.DeleteConfig("c1")

	g, ok := r.Group("g1")
	if !ok {
		t.Fatal("group vanished")
	}
	if len(g.ConfigIDs) != 1 || g.ConfigIDs[0] != "c2" {
		t.Errorf("group members = %v, want [c2]", g.ConfigIDs)
	}
}

func TestDeleteConfigClearsActiveSelection(t *testing.T) {
	r := New()
	r.UpsertConfig(&domain.AiConfig{ID: "c1", Name: "one"})
	r.SetActiveConfig("c1")

	r.DeleteConfig("c1")

	if got := r.ActiveConfigID(); got != "" {
		t.Errorf("active config = %q, want empty", got)
	}
}

func TestConfigsStableOrder(t *testing.T) {
	r := New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.UpsertConfig(&domain.AiConfig{ID: "newer", Name: "b", CreatedAt: base.Add(time.Hour)})
	r.UpsertConfig(&domain.AiConfig{ID: "older", Name: "z", CreatedAt: base})
	r.UpsertConfig(&domain.AiConfig{ID: "tie", Name: "a", CreatedAt: base.Add(time.Hour)})

	got := r.Configs()
	want := []string{"older", "tie", "newer"}
	for i, c := range got {
		if c.ID != want[i] {
			t.Fatalf("order = [%s %s %s], want %v", got[0].ID, got[1].ID, got[2].ID, want)
		}
	}
}

func TestGroupByNameCaseInsensitive(t *testing.T) {
	r := New()
	r.UpsertGroup(&domain.AiConfigGroup{ID: "g1", Name: "Fast Pool"})

	if _, ok := r.GroupByName("fast pool"); !ok {
		t.Error("case-insensitive lookup failed")
	}
	if _, ok := r.GroupByName("other"); ok {
		t.Error("unexpected match")
	}
}

func TestGroupConfigsPreservesMembershipOrder(t *testing.T) {
	r := New()
	r.UpsertConfig(&domain.AiConfig{ID: "c1"})
	r.UpsertConfig(&domain.AiConfig{ID: "c2"})
	r.UpsertGroup(&domain.AiConfigGroup{ID: "g", ConfigIDs: []string{"c2", "ghost", "c1"}})

	g, _ := r.Group("g")
	configs := r.GroupConfigs(g)
	if len(configs) != 2 || configs[0].ID != "c2" || configs[1].ID != "c1" {
		t.Errorf("resolved = %v, want [c2 c1]", configs)
	}
}

func TestReplaceAllSetsLastSync(t *testing.T) {
	r := New()
	if !r.LastSync().IsZero() {
		t.Fatal("fresh registry should have zero lastSync")
	}
	r.ReplaceAll(nil, nil)
	if r.LastSync().IsZero() {
		t.Error("ReplaceAll did not record sync time")
	}
}

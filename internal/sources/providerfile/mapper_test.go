package providerfile

import (
	"testing"

	"tidymark/internal/domain"
)

func sampleFile() *File {
	return &File{
		Configs: []ConfigEntry{
			{Name: "main", Provider: "openai", Model: "gpt-4o-mini", APIKey: "sk-a", Default: true},
			{Name: "local", Provider: "ollama", Model: "llama3", BaseURL: "http://localhost:11434"},
		},
		Groups: []GroupEntry{
			{Name: "pool", Configs: []string{"main", "local"}},
		},
		Active: ActiveEntry{Config: "main", Group: "pool"},
	}
}

func TestMapperMap(t *testing.T) {
	mapped, err := NewMapper().Map(sampleFile())
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if len(mapped.Configs) != 2 {
		t.Fatalf("got %d configs, want 2", len(mapped.Configs))
	}
	main := mapped.Configs[0]
	if main.Name != "main" || main.Provider != domain.ProviderOpenAI || !main.IsDefault {
		t.Errorf("main config = %+v", main)
	}
	if main.ID == "" {
		t.Error("config has no id")
	}

	if len(mapped.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(mapped.Groups))
	}
	group := mapped.Groups[0]
	if len(group.ConfigIDs) != 2 || group.ConfigIDs[0] != main.ID {
		t.Errorf("group membership = %v", group.ConfigIDs)
	}

	if mapped.ActiveConfigID != main.ID {
		t.Errorf("active config = %q, want %q", mapped.ActiveConfigID, main.ID)
	}
	if mapped.ActiveGroupID != group.ID {
		t.Errorf("active group = %q, want %q", mapped.ActiveGroupID, group.ID)
	}
}

func TestMapperStableIDs(t *testing.T) {
	a, err := NewMapper().Map(sampleFile())
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	b, err := NewMapper().Map(sampleFile())
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if a.Configs[0].ID != b.Configs[0].ID {
		t.Error("config ID changed between identical loads")
	}
	if a.Groups[0].ID != b.Groups[0].ID {
		t.Error("group ID changed between identical loads")
	}
}

func TestMapperPreservesDeclarationOrder(t *testing.T) {
	mapped, err := NewMapper().Map(sampleFile())
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if !mapped.Configs[0].CreatedAt.Before(mapped.Configs[1].CreatedAt) {
		t.Error("CreatedAt does not reflect declaration order")
	}
}

func TestMapperErrors(t *testing.T) {
	tests := []struct {
		name string
		file *File
	}{
		{"no configs", &File{}},
		{"unnamed config", &File{Configs: []ConfigEntry{{Provider: "openai", Model: "m"}}}},
		{"unknown provider", &File{Configs: []ConfigEntry{{Name: "x", Provider: "skynet", Model: "m"}}}},
		{"missing model", &File{Configs: []ConfigEntry{{Name: "x", Provider: "openai"}}}},
		{"duplicate name", &File{Configs: []ConfigEntry{
			{Name: "x", Provider: "openai", Model: "m"},
			{Name: "x", Provider: "ollama", Model: "m"},
		}}},
		{"ghost group member", &File{
			Configs: []ConfigEntry{{Name: "x", Provider: "openai", Model: "m"}},
			Groups:  []GroupEntry{{Name: "g", Configs: []string{"nope"}}},
		}},
		{"unknown active config", &File{
			Configs: []ConfigEntry{{Name: "x", Provider: "openai", Model: "m"}},
			Active:  ActiveEntry{Config: "nope"},
		}},
		{"unknown active group", &File{
			Configs: []ConfigEntry{{Name: "x", Provider: "openai", Model: "m"}},
			Active:  ActiveEntry{Group: "nope"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMapper().Map(tt.file); err == nil {
				t.Error("Map() should return error")
			}
		})
	}
}

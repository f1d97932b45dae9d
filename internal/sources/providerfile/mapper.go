package providerfile

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"tidymark/internal/domain"
)

// Mapper converts providers.yaml entries to domain entities
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// Mapped is the fully resolved output of one providers.yaml load
type Mapped struct {
	Configs        []*domain.AiConfig
	Groups         []*domain.AiConfigGroup
	ActiveConfigID string
	ActiveGroupID  string
}

// Map converts a parsed providers file to domain configs and groups.
// IDs are derived from entry names so reloading the same file never
// churns identities; group members reference configs by name and are
// resolved here.
func (m *Mapper) Map(file *File) (*Mapped, error) {
	if len(file.Configs) == 0 {
		return nil, fmt.Errorf("no configs declared in providers file")
	}

	now := time.Now()
	out := &Mapped{}
	configIDs := make(map[string]string, len(file.Configs))

	for i, entry := range file.Configs {
		if entry.Name == "" {
			return nil, fmt.Errorf("config at index %d has no name", i)
		}
		prov := domain.Provider(entry.Provider)
		if !prov.Valid() {
			return nil, fmt.Errorf("config %q: unknown provider %q", entry.Name, entry.Provider)
		}
		if entry.Model == "" {
			return nil, fmt.Errorf("config %q has no model", entry.Name)
		}
		if _, dup := configIDs[entry.Name]; dup {
			return nil, fmt.Errorf("duplicate config name %q", entry.Name)
		}

		cfg := &domain.AiConfig{
			ID:        stableID("config", entry.Name),
			Name:      entry.Name,
			Provider:  prov,
			BaseURL:   entry.BaseURL,
			APIKey:    entry.APIKey,
			ModelID:   entry.Model,
			IsDefault: entry.Default,
			// Millisecond offsets keep the file's declaration order
			// through CreatedAt-based sorting.
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
		}
		if len(entry.Metadata) > 0 {
			cfg.Metadata = make(map[string]string, len(entry.Metadata))
			for k, v := range entry.Metadata {
				cfg.Metadata[k] = v
			}
		}

		configIDs[entry.Name] = cfg.ID
		out.Configs = append(out.Configs, cfg)
	}

	for _, entry := range file.Groups {
		if entry.Name == "" {
			return nil, fmt.Errorf("group with no name")
		}
		group := &domain.AiConfigGroup{
			ID:        stableID("group", entry.Name),
			Name:      entry.Name,
			CreatedAt: now,
		}
		for _, member := range entry.Configs {
			id, ok := configIDs[member]
			if !ok {
				return nil, fmt.Errorf("group %q references unknown config %q", entry.Name, member)
			}
			group.ConfigIDs = append(group.ConfigIDs, id)
		}
		out.Groups = append(out.Groups, group)
	}

	if file.Active.Config != "" {
		id, ok := configIDs[file.Active.Config]
		if !ok {
			return nil, fmt.Errorf("active config %q not declared", file.Active.Config)
		}
		out.ActiveConfigID = id
	}
	if file.Active.Group != "" {
		found := false
		for _, g := range out.Groups {
			if g.Name == file.Active.Group {
				out.ActiveGroupID = g.ID
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("active group %q not declared", file.Active.Group)
		}
	}

	return out, nil
}

// stableID derives a deterministic UUID from an entry's kind and name.
func stableID(kind, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("tidymark/"+kind+"/"+name)).String()
}

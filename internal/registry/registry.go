// Package registry holds the in-memory snapshot of provider configurations
// and groups. It is the read surface the organizer resolves against, synced
// from the redis store on startup and on every mutation.
package registry

import (
	"sort"
	"strings"
	"sync"
	"time"

	"tidymark/internal/domain"
)

// Registry is a concurrency-safe view of configs, groups and the active
// selections. It acts as a fallback when redis is unavailable.
type Registry struct {
	mu             sync.RWMutex
	configs        map[string]*domain.AiConfig
	groups         map[string]*domain.AiConfigGroup
	activeConfigID string
	activeGroupID  string
	lastSync       time.Time
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		configs: make(map[string]*domain.AiConfig),
		groups:  make(map[string]*domain.AiConfigGroup),
	}
}

// ReplaceAll swaps in a full snapshot.
func (r *Registry) ReplaceAll(configs []*domain.AiConfig, groups []*domain.AiConfigGroup) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.configs = make(map[string]*domain.AiConfig, len(configs))
	for _, c := range configs {
		r.configs[c.ID] = c
	}
	r.groups = make(map[string]*domain.AiConfigGroup, len(groups))
	for _, g := range groups {
		r.groups[g.ID] = g
	}
	r.lastSync = time.Now()
}

// Config retrieves a config by id.
func (r *Registry) Config(id string) (*domain.AiConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.configs[id]
	return c, ok
}

// ConfigByName retrieves a config by case-insensitive name.
func (r *Registry) ConfigByName(name string) (*domain.AiConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.configs {
		if c.SameName(name) {
			return c, true
		}
	}
	return nil, false
}

// Configs returns all configs in stable order: creation time, then name.
// "First config" fallbacks in the resolver depend on this order being
// deterministic.
func (r *Registry) Configs() []*domain.AiConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.AiConfig, 0, len(r.configs))
	for _, c := range r.configs {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// UpsertConfig adds or replaces a single config.
func (r *Registry) UpsertConfig(c *domain.AiConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.configs[c.ID] = c
}

// DeleteConfig removes a config and cascades the id out of every group's
// membership list.
func (r *Registry) DeleteConfig(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.configs, id)
	for _, g := range r.groups {
		g.RemoveConfig(id)
	}
	if r.activeConfigID == id {
		r.activeConfigID = ""
	}
}

// Group retrieves a group by id.
func (r *Registry) Group(id string) (*domain.AiConfigGroup, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.groups[id]
	return g, ok
}

// GroupByName retrieves a group by case-insensitive name.
func (r *Registry) GroupByName(name string) (*domain.AiConfigGroup, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.groups {
		if strings.EqualFold(g.Name, name) {
			return g, true
		}
	}
	return nil, false
}

// Groups returns all groups in stable order.
func (r *Registry) Groups() []*domain.AiConfigGroup {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.AiConfigGroup, 0, len(r.groups))
	for _, g := range r.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// UpsertGroup adds or replaces a single group.
func (r *Registry) UpsertGroup(g *domain.AiConfigGroup) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.groups[g.ID] = g
}

// DeleteGroup removes a group.
func (r *Registry) DeleteGroup(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.groups, id)
	if r.activeGroupID == id {
		r.activeGroupID = ""
	}
}

// GroupConfigs resolves a group's membership to configs, preserving
// membership order and skipping ids with no matching config.
func (r *Registry) GroupConfigs(g *domain.AiConfigGroup) []*domain.AiConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.AiConfig, 0, len(g.ConfigIDs))
	for _, id := range g.ConfigIDs {
		if c, ok := r.configs[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// SetActiveConfig records the active config selection.
func (r *Registry) SetActiveConfig(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.activeConfigID = id
}

// ActiveConfigID returns the active config selection, possibly empty.
func (r *Registry) ActiveConfigID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.activeConfigID
}

// SetActiveGroup records the active group selection.
func (r *Registry) SetActiveGroup(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.activeGroupID = id
}

// ActiveGroupID returns the active group selection, possibly empty.
func (r *Registry) ActiveGroupID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.activeGroupID
}

// Count returns the number of configs.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.configs)
}

// GroupCount returns the number of groups.
func (r *Registry) GroupCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.groups)
}

// LastSync returns when the registry last got a full snapshot.
func (r *Registry) LastSync() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lastSync
}

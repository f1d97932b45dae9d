package domain

import (
	"strings"
	"time"
)

// Provider identifies which LLM HTTP API an AiConfig talks to.
// The set is closed; azure, grok and custom reuse the OpenAI-compatible
// wire format.
type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderGemini     Provider = "gemini"
	ProviderAnthropic  Provider = "anthropic"
	ProviderOpenRouter Provider = "openrouter"
	ProviderAzure      Provider = "azure"
	ProviderGrok       Provider = "grok"
	ProviderOllama     Provider = "ollama"
	ProviderCustom     Provider = "custom"
)

// Providers lists every valid provider value.
var Providers = []Provider{
	ProviderOpenAI, ProviderGemini, ProviderAnthropic, ProviderOpenRouter,
	ProviderAzure, ProviderGrok, ProviderOllama, ProviderCustom,
}

// Valid reports whether p is a member of the closed provider set.
func (p Provider) Valid() bool {
	for _, known := range Providers {
		if p == known {
			return true
		}
	}
	return false
}

// AiConfig is one saved provider configuration. The ID is immutable;
// everything else may be edited. Name is unique among configs,
// case-insensitively.
type AiConfig struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Provider  Provider          `json:"provider"`
	BaseURL   string            `json:"baseUrl,omitempty"`
	APIKey    string            `json:"apiKey,omitempty"`
	ModelID   string            `json:"modelId"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	IsDefault bool              `json:"isDefault,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// SameName reports whether the config's name equals other,
// case-insensitively.
func (c *AiConfig) SameName(other string) bool {
	return strings.EqualFold(c.Name, other)
}

// AiConfigGroup is an ordered set of AiConfig ids used as the unit of
// provider selection for batch organization: a group of N configs gives N
// concurrent round-robin lanes. Membership order defines lane priority.
type AiConfigGroup struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ConfigIDs []string  `json:"configIds"`
	CreatedAt time.Time `json:"createdAt"`
}

// RemoveConfig drops a config id from the group's membership list.
// Deleting a config must cascade here so groups never reference ghosts.
func (g *AiConfigGroup) RemoveConfig(id string) bool {
	for i, member := range g.ConfigIDs {
		if member == id {
			g.ConfigIDs = append(g.ConfigIDs[:i], g.ConfigIDs[i+1:]...)
			return true
		}
	}
	return false
}

package provider

import (
	"fmt"

	"tidymark/internal/domain"
)

// defaultBaseURLs holds the per-provider default endpoints used when a
// config carries no explicit base URL. Azure and custom deployments have no
// sensible default and must be configured explicitly.
var defaultBaseURLs = map[domain.Provider]string{
	domain.ProviderOpenAI:     "https://api.openai.com/v1",
	domain.ProviderOpenRouter: "https://openrouter.ai/api/v1",
	domain.ProviderAnthropic:  "https://api.anthropic.com",
	domain.ProviderGemini:     "https://generativelanguage.googleapis.com",
	domain.ProviderGrok:       "https://api.x.ai/v1",
	domain.ProviderOllama:     "http://localhost:11434",
}

// Selector picks one AiConfig out of a registry snapshot.
// Precedence: explicit ConfigID, then ActiveID, then a config flagged
// default, then the first config.
type Selector struct {
	ConfigID string
	ActiveID string
}

// Resolve selects a config and builds its adapter. A config without an
// explicit base URL gets the provider default filled in, in place; repeating
// the call is safe.
func Resolve(configs []*domain.AiConfig, sel Selector, transport *Transport) (Adapter, error) {
	cfg, err := Select(configs, sel)
	if err != nil {
		return nil, err
	}
	return New(cfg, transport)
}

// New builds the adapter for a single config, applying the default
// endpoint table first. The provider switch is closed: azure, grok and
// custom share the OpenAI-compatible adapter.
func New(cfg *domain.AiConfig, transport *Transport) (Adapter, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURLs[cfg.Provider]
	}

	switch cfg.Provider {
	case domain.ProviderOpenAI, domain.ProviderOpenRouter, domain.ProviderAzure,
		domain.ProviderGrok, domain.ProviderCustom:
		return &openAIAdapter{cfg: cfg, transport: transport}, nil
	case domain.ProviderAnthropic:
		return &anthropicAdapter{cfg: cfg, transport: transport}, nil
	case domain.ProviderGemini:
		return &geminiAdapter{cfg: cfg, transport: transport}, nil
	case domain.ProviderOllama:
		return &ollamaAdapter{cfg: cfg, transport: transport}, nil
	default:
		return nil, NewConfigNotFound(fmt.Sprintf("unknown provider %q", cfg.Provider))
	}
}

// Select applies the selector precedence to a config snapshot: explicit
// id, then active id, then the first config flagged default, then the
// first config outright.
func Select(configs []*domain.AiConfig, sel Selector) (*domain.AiConfig, error) {
	if len(configs) == 0 {
		return nil, NewConfigNotFound("no provider configurations available")
	}

	if sel.ConfigID != "" {
		if cfg := findByID(configs, sel.ConfigID); cfg != nil {
			return cfg, nil
		}
		return nil, NewConfigNotFound(fmt.Sprintf("config %q not found", sel.ConfigID))
	}

	if sel.ActiveID != "" {
		if cfg := findByID(configs, sel.ActiveID); cfg != nil {
			return cfg, nil
		}
		return nil, NewConfigNotFound(fmt.Sprintf("active config %q not found", sel.ActiveID))
	}

	for _, cfg := range configs {
		if cfg.IsDefault {
			return cfg, nil
		}
	}

	return configs[0], nil
}

func findByID(configs []*domain.AiConfig, id string) *domain.AiConfig {
	for _, cfg := range configs {
		if cfg.ID == id {
			return cfg
		}
	}
	return nil
}

package provider

import (
	"errors"
	"testing"
	"time"

	"tidymark/internal/domain"
)

func testConfigs() []*domain.AiConfig {
	return []*domain.AiConfig{
		{ID: "c1", Name: "first", Provider: domain.ProviderOpenAI, ModelID: "gpt-4o-mini"},
		{ID: "c2", Name: "flagged", Provider: domain.ProviderAnthropic, ModelID: "claude-haiku", IsDefault: true},
		{ID: "c3", Name: "local", Provider: domain.ProviderOllama, ModelID: "llama3"},
	}
}

func TestSelectConfigPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		sel    Selector
		wantID string
	}{
		{name: "explicit id wins", sel: Selector{ConfigID: "c3", ActiveID: "c1"}, wantID: "c3"},
		{name: "active id next", sel: Selector{ActiveID: "c1"}, wantID: "c1"},
		{name: "default flag next", sel: Selector{}, wantID: "c2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Select(testConfigs(), tt.sel)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.ID != tt.wantID {
				t.Errorf("selected %s, want %s", cfg.ID, tt.wantID)
			}
		})
	}
}

func TestSelectConfigFirstWhenNoDefault(t *testing.T) {
	configs := []*domain.AiConfig{
		{ID: "a", Provider: domain.ProviderOpenAI},
		{ID: "b", Provider: domain.ProviderOpenAI},
	}
	cfg, err := Select(configs, Selector{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ID != "a" {
		t.Errorf("selected %s, want a", cfg.ID)
	}
}

func TestSelectConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		configs []*domain.AiConfig
		sel     Selector
	}{
		{name: "empty registry", configs: nil, sel: Selector{}},
		{name: "missing explicit id", configs: testConfigs(), sel: Selector{ConfigID: "ghost"}},
		{name: "missing active id", configs: testConfigs(), sel: Selector{ActiveID: "ghost"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Select(tt.configs, tt.sel)
			var perr *Error
			if !errors.As(err, &perr) || perr.Code != CodeConfigNotFound {
				t.Errorf("err = %v, want CONFIG_NOT_FOUND", err)
			}
		})
	}
}

func TestNewPopulatesDefaultBaseURL(t *testing.T) {
	cfg := &domain.AiConfig{ID: "c", Provider: domain.ProviderOpenAI, ModelID: "gpt-4o"}
	tr := NewTransport(time.Second)

	if _, err := New(cfg, tr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("base url = %q, want openai default", cfg.BaseURL)
	}

	// Repeating resolution must not clobber the populated value.
	cfg.BaseURL = "https://proxy.internal/v1"
	if _, err := New(cfg, tr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "https://proxy.internal/v1" {
		t.Errorf("base url overwritten to %q", cfg.BaseURL)
	}
}

func TestNewClosedProviderSwitch(t *testing.T) {
	tr := NewTransport(time.Second)

	// azure, grok and custom share the OpenAI-compatible adapter.
	for _, p := range []domain.Provider{domain.ProviderAzure, domain.ProviderGrok, domain.ProviderCustom} {
		adapter, err := New(&domain.AiConfig{ID: "x", Provider: p, BaseURL: "https://e.test"}, tr)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", p, err)
		}
		if _, ok := adapter.(*openAIAdapter); !ok {
			t.Errorf("%s: adapter type %T, want openAIAdapter", p, adapter)
		}
	}

	if _, err := New(&domain.AiConfig{ID: "x", Provider: "unheard-of"}, tr); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Code
	}{
		{401, CodeAuth},
		{403, CodeAuth},
		{404, CodeEndpointNotFound},
		{429, CodeRateLimit},
		{500, CodeNetwork},
		{503, CodeNetwork},
		{400, CodeProvider},
		{418, CodeProvider},
	}
	for _, tt := range tests {
		if got := ClassifyStatus(tt.status); got != tt.want {
			t.Errorf("ClassifyStatus(%d) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"tidymark/internal/domain"
	"tidymark/internal/utils"
)

const (
	anthropicVersion          = "2023-06-01"
	anthropicDefaultMaxTokens = 4096
)

// anthropicAdapter speaks the Anthropic messages API.
type anthropicAdapter struct {
	cfg       *domain.AiConfig
	transport *Transport
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (a *anthropicAdapter) ID() string                { return a.cfg.ID }
func (a *anthropicAdapter) Provider() domain.Provider { return a.cfg.Provider }

func (a *anthropicAdapter) GenerateContent(ctx context.Context, prompt string, opts GenerateOptions) (*Result, error) {
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		// max_tokens is mandatory on this API.
		maxTokens = anthropicDefaultMaxTokens
	}
	body, err := json.Marshal(anthropicRequest{
		Model:       a.cfg.ModelID,
		MaxTokens:   maxTokens,
		Temperature: opts.Temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, parseError(a.cfg.Provider, err)
	}

	headers := map[string]string{
		"x-api-key":         a.cfg.APIKey,
		"anthropic-version": anthropicVersion,
	}

	url := strings.TrimSuffix(a.cfg.BaseURL, "/") + "/v1/messages"
	resp, err := a.transport.PostJSON(ctx, url, headers, body)
	if err != nil {
		return nil, networkError(a.cfg.Provider, err)
	}
	defer utils.Close(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(a.cfg.Provider, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpError(a.cfg.Provider, resp.StatusCode, string(raw))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, parseError(a.cfg.Provider, err)
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, parseError(a.cfg.Provider, fmt.Errorf("response contains no text blocks"))
	}

	return &Result{Text: text.String(), Raw: raw}, nil
}

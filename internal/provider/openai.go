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

// openAIAdapter speaks the OpenAI chat-completions wire format. It serves
// openai and openrouter directly, and azure, grok and custom endpoints,
// which all expose the same API shape.
type openAIAdapter struct {
	cfg       *domain.AiConfig
	transport *Transport
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (a *openAIAdapter) ID() string                { return a.cfg.ID }
func (a *openAIAdapter) Provider() domain.Provider { return a.cfg.Provider }

func (a *openAIAdapter) GenerateContent(ctx context.Context, prompt string, opts GenerateOptions) (*Result, error) {
	body, err := json.Marshal(openAIRequest{
		Model:       a.cfg.ModelID,
		Messages:    []openAIMessage{{Role: "user", Content: prompt}},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return nil, parseError(a.cfg.Provider, err)
	}

	headers := map[string]string{}
	if a.cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + a.cfg.APIKey
	}

	url := strings.TrimSuffix(a.cfg.BaseURL, "/") + "/chat/completions"
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

	var parsed openAIResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, parseError(a.cfg.Provider, err)
	}
	if len(parsed.Choices) == 0 {
		return nil, parseError(a.cfg.Provider, fmt.Errorf("response contains no choices"))
	}

	return &Result{Text: parsed.Choices[0].Message.Content, Raw: raw}, nil
}

package provider

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"tidymark/internal/domain"
	"tidymark/internal/utils"
)

// ollamaAdapter speaks the local Ollama generate API. No API key involved.
type ollamaAdapter struct {
	cfg       *domain.AiConfig
	transport *Transport
}

type ollamaRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options *ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func (a *ollamaAdapter) ID() string                { return a.cfg.ID }
func (a *ollamaAdapter) Provider() domain.Provider { return a.cfg.Provider }

func (a *ollamaAdapter) GenerateContent(ctx context.Context, prompt string, opts GenerateOptions) (*Result, error) {
	req := ollamaRequest{
		Model:  a.cfg.ModelID,
		Prompt: prompt,
		Stream: false,
	}
	if opts.Temperature != 0 || opts.MaxTokens != 0 {
		req.Options = &ollamaOptions{
			Temperature: opts.Temperature,
			NumPredict:  opts.MaxTokens,
		}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, parseError(a.cfg.Provider, err)
	}

	url := strings.TrimSuffix(a.cfg.BaseURL, "/") + "/api/generate"
	resp, err := a.transport.PostJSON(ctx, url, nil, body)
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

	var parsed ollamaResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, parseError(a.cfg.Provider, err)
	}

	return &Result{Text: parsed.Response, Raw: raw}, nil
}

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"tidymark/internal/domain"
	"tidymark/internal/utils"
)

// geminiAdapter speaks the Gemini generateContent API.
type geminiAdapter struct {
	cfg       *domain.AiConfig
	transport *Transport
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (a *geminiAdapter) ID() string                { return a.cfg.ID }
func (a *geminiAdapter) Provider() domain.Provider { return a.cfg.Provider }

func (a *geminiAdapter) GenerateContent(ctx context.Context, prompt string, opts GenerateOptions) (*Result, error) {
	req := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	if opts.Temperature != 0 || opts.MaxTokens != 0 {
		req.GenerationConfig = &geminiGenConfig{
			Temperature:     opts.Temperature,
			MaxOutputTokens: opts.MaxTokens,
		}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, parseError(a.cfg.Provider, err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimSuffix(a.cfg.BaseURL, "/"),
		url.PathEscape(a.cfg.ModelID),
		url.QueryEscape(a.cfg.APIKey))

	resp, err := a.transport.PostJSON(ctx, endpoint, nil, body)
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

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, parseError(a.cfg.Provider, err)
	}
	if len(parsed.Candidates) == 0 {
		return nil, parseError(a.cfg.Provider, fmt.Errorf("response contains no candidates"))
	}

	var text strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	return &Result{Text: text.String(), Raw: raw}, nil
}

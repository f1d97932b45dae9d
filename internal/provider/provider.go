// Package provider maps the fixed set of LLM provider HTTP APIs onto one
// uniform generation capability, with a shared retrying transport and a
// structured error taxonomy.
package provider

import (
	"context"
	"encoding/json"

	"tidymark/internal/domain"
)

// GenerateOptions tunes a single generation request. Zero values mean
// provider defaults.
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

// Result is the uniform shape of a provider response: the generated text
// plus the raw response body for callers that want provider specifics.
type Result struct {
	Text string
	Raw  json.RawMessage
}

// Adapter is the uniform generation capability over one provider API.
// Implementations are thin request/response mappings; retries and backoff
// live in the shared transport underneath.
type Adapter interface {
	// GenerateContent sends one prompt and returns the model's text reply.
	// Cancellation of ctx aborts the request, including mid-flight.
	GenerateContent(ctx context.Context, prompt string, opts GenerateOptions) (*Result, error)

	// ID returns the id of the AiConfig the adapter was built from.
	ID() string

	// Provider returns the adapter's provider identity.
	Provider() domain.Provider
}

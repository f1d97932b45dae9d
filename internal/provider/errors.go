package provider

import (
	"fmt"
	"net/http"

	"tidymark/internal/domain"
)

// Code classifies provider failures. The organizer branches its log
// treatment on these values.
type Code string

const (
	CodeAuth             Code = "AUTH_ERROR"
	CodeEndpointNotFound Code = "ENDPOINT_NOT_FOUND"
	CodeRateLimit        Code = "RATE_LIMIT"
	CodeNetwork          Code = "NETWORK_ERROR"
	CodeParse            Code = "PARSE_ERROR"
	CodeProvider         Code = "PROVIDER_ERROR"
	CodeConfigNotFound   Code = "CONFIG_NOT_FOUND"
)

// Error is the structured failure surfaced by every adapter.
type Error struct {
	Code     Code
	Message  string
	Provider domain.Provider
	Status   int
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (provider=%s, status=%d)", e.Code, e.Message, e.Provider, e.Status)
	}
	if e.Provider != "" {
		return fmt.Sprintf("%s: %s (provider=%s)", e.Code, e.Message, e.Provider)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ClassifyStatus maps an HTTP status to the error taxonomy.
func ClassifyStatus(status int) Code {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CodeAuth
	case status == http.StatusNotFound:
		return CodeEndpointNotFound
	case status == http.StatusTooManyRequests:
		return CodeRateLimit
	case status >= 500:
		return CodeNetwork
	default:
		return CodeProvider
	}
}

func httpError(p domain.Provider, status int, body string) *Error {
	const maxBody = 200
	if len(body) > maxBody {
		body = body[:maxBody] + "..."
	}
	return &Error{
		Code:     ClassifyStatus(status),
		Message:  fmt.Sprintf("request failed: %s", body),
		Provider: p,
		Status:   status,
	}
}

func networkError(p domain.Provider, err error) *Error {
	return &Error{Code: CodeNetwork, Message: err.Error(), Provider: p}
}

func parseError(p domain.Provider, err error) *Error {
	return &Error{Code: CodeParse, Message: err.Error(), Provider: p}
}

// NewConfigNotFound builds the structural error returned when no AiConfig
// can be resolved.
func NewConfigNotFound(message string) *Error {
	return &Error{Code: CodeConfigNotFound, Message: message}
}

package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"tidymark/internal/domain"
)

func openAITestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, Adapter) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &domain.AiConfig{
		ID:       "test",
		Provider: domain.ProviderOpenAI,
		BaseURL:  srv.URL,
		APIKey:   "sk-test",
		ModelID:  "gpt-4o-mini",
	}
	adapter, err := New(cfg, NewTransport(5*time.Second))
	if err != nil {
		t.Fatalf("failed to build adapter: %v", err)
	}
	return srv, adapter
}

func TestOpenAIAdapterHappyPath(t *testing.T) {
	var gotAuth, gotPath string
	_, adapter := openAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		var req openAIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Model != "gpt-4o-mini" || len(req.Messages) != 1 {
			t.Errorf("unexpected request: %+v", req)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "[]"}},
			},
		})
	})

	res, err := adapter.GenerateContent(context.Background(), "organize these", GenerateOptions{Temperature: 0.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "[]" {
		t.Errorf("text = %q, want []", res.Text)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestOpenAIAdapterErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   Code
	}{
		{name: "unauthorized", status: 401, want: CodeAuth},
		{name: "not found", status: 404, want: CodeEndpointNotFound},
		{name: "bad request", status: 400, want: CodeProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, adapter := openAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			})

			_, err := adapter.GenerateContent(context.Background(), "p", GenerateOptions{})
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("err = %v, want *provider.Error", err)
			}
			if perr.Code != tt.want || perr.Status != tt.status {
				t.Errorf("got code=%s status=%d, want %s/%d", perr.Code, perr.Status, tt.want, tt.status)
			}
			if perr.Provider != domain.ProviderOpenAI {
				t.Errorf("provider = %s", perr.Provider)
			}
		})
	}
}

func TestTransportRetriesRateLimitThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	_, adapter := openAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "ok"}},
			},
		})
	})

	res, err := adapter.GenerateContent(context.Background(), "p", GenerateOptions{})
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if res.Text != "ok" {
		t.Errorf("text = %q", res.Text)
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2", calls.Load())
	}
}

func TestTransportDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	_, adapter := openAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	})

	_, err := adapter.GenerateContent(context.Background(), "p", GenerateOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1 (4xx must not retry)", calls.Load())
	}
}

func TestTransportHonorsCancellation(t *testing.T) {
	started := make(chan struct{})
	unblock := make(chan struct{})
	_, adapter := openAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		// The server only notices the client going away once the body
		// is consumed, and the handler must return for Close to finish.
		_, _ = io.Copy(io.Discard, r.Body)
		close(started)
		select {
		case <-r.Context().Done():
		case <-unblock:
		}
	})
	defer close(unblock)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := adapter.GenerateContent(ctx, "p", GenerateOptions{})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestAnthropicAdapter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "sk-ant" {
			t.Errorf("missing api key header")
		}
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": "hello"},
				{"type": "text", "text": " world"},
			},
		})
	}))
	defer srv.Close()

	cfg := &domain.AiConfig{ID: "a", Provider: domain.ProviderAnthropic, BaseURL: srv.URL, APIKey: "sk-ant", ModelID: "claude-haiku"}
	adapter, err := New(cfg, NewTransport(5*time.Second))
	if err != nil {
		t.Fatalf("failed to build adapter: %v", err)
	}

	res, err := adapter.GenerateContent(context.Background(), "p", GenerateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "hello world" {
		t.Errorf("text = %q", res.Text)
	}
}

func TestOllamaAdapter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Stream {
			t.Error("stream must be disabled")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"response": "done"})
	}))
	defer srv.Close()

	cfg := &domain.AiConfig{ID: "o", Provider: domain.ProviderOllama, BaseURL: srv.URL, ModelID: "llama3"}
	adapter, err := New(cfg, NewTransport(5*time.Second))
	if err != nil {
		t.Fatalf("failed to build adapter: %v", err)
	}

	res, err := adapter.GenerateContent(context.Background(), "p", GenerateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "done" {
		t.Errorf("text = %q", res.Text)
	}
}

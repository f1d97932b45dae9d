package provider

import (
	"bytes"
	"context"
	"net/http"
	"time"
)

const (
	defaultMaxRetries  = 3
	defaultInitialWait = 500 * time.Millisecond
	defaultMaxWait     = 8 * time.Second
)

// Transport is the retrying HTTP layer shared by all adapters. It retries
// 5xx and 429 responses and transport-level failures with exponential
// backoff, never other 4xx, and stops as soon as the context is cancelled.
// It always eventually returns a response or an error; it never hangs
// beyond the context deadline.
type Transport struct {
	client      *http.Client
	maxRetries  int
	initialWait time.Duration
	maxWait     time.Duration
}

// NewTransport builds a transport with a per-request timeout and default
// retry policy.
func NewTransport(timeout time.Duration) *Transport {
	return &Transport{
		client:      &http.Client{Timeout: timeout},
		maxRetries:  defaultMaxRetries,
		initialWait: defaultInitialWait,
		maxWait:     defaultMaxWait,
	}
}

// PostJSON sends the body to url with the given headers, rebuilding the
// request for each retry attempt. The caller owns the returned response
// body.
func (t *Transport) PostJSON(ctx context.Context, url string, headers map[string]string, body []byte) (*http.Response, error) {
	wait := t.initialWait
	var lastErr error

	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
			if wait > t.maxWait {
				wait = t.maxWait
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := t.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				// Explicit cancellation is never retried.
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		if !retryableStatus(resp.StatusCode) || attempt == t.maxRetries {
			return resp, nil
		}
		_ = resp.Body.Close()
	}

	return nil, lastErr
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

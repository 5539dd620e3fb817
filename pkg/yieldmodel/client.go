// Package yieldmodel provides an HTTP client for the external yield
// model serving endpoint. The advisor treats the model as an opaque
// function: features in, one yield scalar out.
package yieldmodel

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/agrifin/cropadvisor/internal/predictor"
	"github.com/agrifin/cropadvisor/internal/resilience"
)

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout overrides the per-call timeout. Non-positive values keep
// the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

// Client calls a model server's predict endpoint. It implements
// predictor.Predictor.
type Client struct {
	endpoint string
	http     *http.Client
	retry    resilience.RetryConfig
}

type predictResponse struct {
	Yield *float64 `json:"yield"`
}

// NewClient creates a client for the given predict endpoint URL.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: 5 * time.Second,
		},
		retry: resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Predict posts the feature record and returns the predicted yield in
// quintals per acre. Malformed or non-finite model output is an error;
// the engine skips the affected crop.
func (c *Client) Predict(ctx context.Context, features predictor.Features) (float64, error) {
	payload, err := json.Marshal(features)
	if err != nil {
		return 0, eris.Wrap(err, "yieldmodel: marshal features")
	}

	yield, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (float64, error) {
		return c.predictOnce(ctx, payload)
	})
	if err != nil {
		return 0, err
	}
	return yield, nil
}

func (c *Client) predictOnce(ctx context.Context, payload []byte) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, eris.Wrap(err, "yieldmodel: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, eris.Wrap(err, "yieldmodel: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, eris.Wrap(err, "yieldmodel: read response body")
	}

	if resilience.IsTransientHTTPStatus(resp.StatusCode) {
		return 0, resilience.NewTransientError(
			eris.Errorf("yieldmodel: status %d", resp.StatusCode),
			resp.StatusCode,
		)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, eris.Errorf("yieldmodel: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result predictResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, eris.Wrap(err, "yieldmodel: unmarshal response")
	}
	if result.Yield == nil {
		return 0, eris.New("yieldmodel: response missing yield")
	}
	if math.IsNaN(*result.Yield) || math.IsInf(*result.Yield, 0) {
		return 0, eris.New("yieldmodel: non-finite yield")
	}

	return *result.Yield, nil
}

// Package mandi provides a client for the data.gov.in daily mandi price
// resource, the advisor's live market price source.
package mandi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/agrifin/cropadvisor/internal/resilience"
)

// DefaultResourceID identifies the current daily price of various
// commodities dataset on data.gov.in.
const DefaultResourceID = "9ef84268-d588-465a-a308-a864a43d0070"

// Record is one raw observation as reported by the feed. Prices arrive
// as strings and are not validated here; aggregation decides what
// survives.
type Record struct {
	State       string `json:"state"`
	District    string `json:"district"`
	Market      string `json:"market"`
	Commodity   string `json:"commodity"`
	Variety     string `json:"variety"`
	ArrivalDate string `json:"arrival_date"`
	MinPrice    string `json:"min_price"`
	MaxPrice    string `json:"max_price"`
	ModalPrice  string `json:"modal_price"`
}

// Client defines the mandi price feed operations.
type Client interface {
	// FetchPrices returns the latest raw price records for the
	// configured state.
	FetchPrices(ctx context.Context) ([]Record, error)
}

type feedResponse struct {
	Total   int      `json:"total"`
	Count   int      `json:"count"`
	Records []Record `json:"records"`
}

// Option configures the mandi client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithResourceID overrides the dataset resource id.
func WithResourceID(id string) Option {
	return func(c *httpClient) { c.resourceID = id }
}

// WithState sets the state filter applied to the feed.
func WithState(state string) Option {
	return func(c *httpClient) { c.state = state }
}

// WithLimit caps the number of records requested per fetch.
func WithLimit(limit int) Option {
	return func(c *httpClient) { c.limit = limit }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithTimeout overrides the per-fetch timeout. Non-positive values keep
// the default.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) { c.retry = cfg }
}

type httpClient struct {
	apiKey     string
	baseURL    string
	resourceID string
	state      string
	limit      int
	http       *http.Client
	limiter    *rate.Limiter
	retry      resilience.RetryConfig
}

// NewClient creates a mandi feed client. The timeout is deliberately
// short: a hung fetch blocks the whole recommendation request, and the
// engine degrades gracefully on failure.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:     apiKey,
		baseURL:    "https://api.data.gov.in",
		resourceID: DefaultResourceID,
		state:      "Karnataka",
		limit:      300,
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(2, 4),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) FetchPrices(ctx context.Context) ([]Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "mandi: rate limiter wait")
	}

	resp, err := resilience.DoVal(ctx, c.retry, c.fetchOnce)
	if err != nil {
		return nil, err
	}
	return resp.Records, nil
}

func (c *httpClient) fetchOnce(ctx context.Context) (*feedResponse, error) {
	reqURL := fmt.Sprintf("%s/resource/%s", c.baseURL, c.resourceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "mandi: create request")
	}

	q := url.Values{}
	q.Set("api-key", c.apiKey)
	q.Set("format", "json")
	q.Set("limit", fmt.Sprintf("%d", c.limit))
	if c.state != "" {
		q.Set("filters[state]", c.state)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "mandi: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "mandi: read response body")
	}

	if resilience.IsTransientHTTPStatus(resp.StatusCode) {
		return nil, resilience.NewTransientError(
			eris.Errorf("mandi: status %d: %s", resp.StatusCode, truncate(body)),
			resp.StatusCode,
		)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("mandi: unexpected status %d: %s", resp.StatusCode, truncate(body))
	}

	var result feedResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "mandi: unmarshal response")
	}

	return &result, nil
}

func truncate(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

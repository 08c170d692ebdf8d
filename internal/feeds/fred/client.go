package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/twokomi/oneclick-reports-backend/internal/interfaces"
)

const (
	// DefaultBaseURL is the base URL for the FRED API.
	DefaultBaseURL = "https://api.stlouisfed.org/fred"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 20 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 10
)

// Client is a FRED API client. It implements interfaces.MacroFeed: an
// unconfigured client or a failed fetch surfaces as an absent
// observation, never as an error to the enrichment pipeline.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

var _ interfaces.MacroFeed = (*Client)(nil)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new FRED API client. An empty apiKey is allowed;
// the client reports Configured() == false and every lookup is absent.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name identifies the provider in logs.
func (c *Client) Name() string {
	return "FRED"
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Latest returns the most recent observation for a series, or ok == false
// when the series has no data, the provider is unreachable, or no
// credential is configured.
func (c *Client) Latest(ctx context.Context, seriesID string) (interfaces.SeriesObservation, bool) {
	if !c.Configured() {
		if c.logger != nil {
			c.logger.Debug().Str("series", seriesID).Msg("FRED API key not configured, skipping series")
		}
		return interfaces.SeriesObservation{}, false
	}

	obs, err := c.latestObservation(ctx, seriesID)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn().Err(err).Str("series", seriesID).Msg("FRED lookup failed")
		}
		return interfaces.SeriesObservation{}, false
	}
	if obs == nil {
		return interfaces.SeriesObservation{}, false
	}
	return *obs, true
}

// latestObservation fetches the newest observation of a series. A nil
// result with nil error means the series exists but has no usable value
// (empty observation list or the "." sentinel).
func (c *Client) latestObservation(ctx context.Context, seriesID string) (*interfaces.SeriesObservation, error) {
	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("sort_order", "desc")
	params.Set("limit", "1")

	var result observationsResponse
	if err := c.get(ctx, "/series/observations", seriesID, params, &result); err != nil {
		return nil, err
	}

	if len(result.Observations) == 0 {
		return nil, nil
	}

	raw := result.Observations[0]
	if raw.Value == "" || raw.Value == noDataSentinel {
		return nil, nil
	}

	value, err := strconv.ParseFloat(raw.Value, 64)
	if err != nil {
		return nil, fmt.Errorf("unparseable observation value '%s' for %s: %w", raw.Value, seriesID, err)
	}

	return &interfaces.SeriesObservation{Date: raw.Date, Value: value}, nil
}

// get performs a GET request to the API.
func (c *Client) get(ctx context.Context, path, seriesID string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("url", c.baseURL+path).
			Str("series", seriesID).
			Msg("FRED API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			SeriesID:   seriesID,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

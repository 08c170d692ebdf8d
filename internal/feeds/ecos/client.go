// Package ecos provides a client for the Bank of Korea ECOS statistics
// API, used as the second (alternate-provenance) Korea CPI source.
package ecos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/twokomi/oneclick-reports-backend/internal/interfaces"
)

const (
	// DefaultBaseURL is the base URL for the ECOS API.
	DefaultBaseURL = "https://ecos.bok.or.kr/api"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 20 * time.Second

	// SeriesKoreaCPI is the ECOS statistic table for Korea CPI (monthly).
	SeriesKoreaCPI = "901Y014"
)

// statisticSearchResponse mirrors the ECOS StatisticSearch payload.
type statisticSearchResponse struct {
	StatisticSearch struct {
		Row []struct {
			Time      string `json:"TIME"`
			DataValue string `json:"DATA_VALUE"`
		} `json:"row"`
	} `json:"StatisticSearch"`
}

// Client is an ECOS API client implementing interfaces.MacroFeed.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
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

// NewClient creates a new ECOS API client. An empty apiKey is allowed;
// the client reports Configured() == false and every lookup is absent.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name identifies the provider in logs.
func (c *Client) Name() string {
	return "ECOS"
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Latest returns the most recent observation of a monthly statistic
// table, or ok == false when unconfigured, unreachable, or empty.
func (c *Client) Latest(ctx context.Context, seriesID string) (interfaces.SeriesObservation, bool) {
	if !c.Configured() {
		if c.logger != nil {
			c.logger.Debug().Str("series", seriesID).Msg("ECOS API key not configured, skipping series")
		}
		return interfaces.SeriesObservation{}, false
	}

	obs, err := c.latestObservation(ctx, seriesID)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn().Err(err).Str("series", seriesID).Msg("ECOS lookup failed")
		}
		return interfaces.SeriesObservation{}, false
	}
	if obs == nil {
		return interfaces.SeriesObservation{}, false
	}
	return *obs, true
}

func (c *Client) latestObservation(ctx context.Context, seriesID string) (*interfaces.SeriesObservation, error) {
	// Path-style request: key/format/lang/start/end/table/cycle/from/to.
	// A wide year range with a small row window yields the latest rows.
	reqURL := fmt.Sprintf("%s/StatisticSearch/%s/json/kr/1/2/%s/M/2020/2030/", c.baseURL, c.apiKey, seriesID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug().Str("series", seriesID).Msg("ECOS API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ECOS API error: %s (status: %d)", string(body), resp.StatusCode)
	}

	var result statisticSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	rows := result.StatisticSearch.Row
	if len(rows) == 0 {
		return nil, nil
	}

	last := rows[len(rows)-1]
	value, err := strconv.ParseFloat(last.DataValue, 64)
	if err != nil {
		return nil, fmt.Errorf("unparseable data value '%s': %w", last.DataValue, err)
	}

	return &interfaces.SeriesObservation{Date: last.Time, Value: value}, nil
}

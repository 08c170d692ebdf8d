// Package fred provides a client for the St. Louis Fed FRED API.
// This package centralizes all FRED series interactions for the application.
package fred

import (
	"fmt"
)

// Series IDs consumed by the enrichment pipeline.
const (
	SeriesUST10Y   = "DGS10"           // 10-year US treasury benchmark rate
	SeriesUSDKRW   = "DEXKOUS"         // KRW per USD spot rate
	SeriesUSCPI    = "CPIAUCSL"        // US CPI, all urban consumers
	SeriesUnemp    = "UNRATE"          // US unemployment rate
	SeriesFedFunds = "FEDFUNDS"        // Federal funds effective rate
	SeriesKoreaCPI = "KORCPIALLMINMEI" // Korea CPI via OECD MEI
)

// noDataSentinel is FRED's literal placeholder for "no observation".
const noDataSentinel = "."

// APIError represents an error from the FRED API.
type APIError struct {
	StatusCode int
	Message    string
	SeriesID   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("FRED API error: %s (status: %d, series: %s)", e.Message, e.StatusCode, e.SeriesID)
}

// observationsResponse mirrors the /series/observations payload. Values
// arrive as strings; "." means no data for the period.
type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

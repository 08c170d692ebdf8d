package models

import (
	"fmt"
	"strings"
	"time"
)

// ReportKind identifies the reporting period a report covers.
type ReportKind string

const (
	ReportKindDaily   ReportKind = "daily"
	ReportKindWeekly  ReportKind = "weekly"
	ReportKindMonthly ReportKind = "monthly"
)

// ParseReportKind validates and normalizes a report kind string.
func ParseReportKind(s string) (ReportKind, error) {
	switch ReportKind(strings.ToLower(strings.TrimSpace(s))) {
	case ReportKindDaily:
		return ReportKindDaily, nil
	case ReportKindWeekly:
		return ReportKindWeekly, nil
	case ReportKindMonthly:
		return ReportKindMonthly, nil
	default:
		return "", fmt.Errorf("kind must be daily|weekly|monthly, got '%s'", s)
	}
}

// ReportMode selects the rendering path for a report body.
type ReportMode string

const (
	// ReportModeData renders the collected aggregate as deterministic markdown.
	ReportModeData ReportMode = "data"
	// ReportModeAnalysis delegates to the LLM service for a narrative report.
	ReportModeAnalysis ReportMode = "analysis"
)

// ParseReportMode validates and normalizes a report mode string.
// An empty string defaults to analysis mode.
func ParseReportMode(s string) (ReportMode, error) {
	switch ReportMode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return ReportModeAnalysis, nil
	case ReportModeData:
		return ReportModeData, nil
	case ReportModeAnalysis:
		return ReportModeAnalysis, nil
	default:
		return "", fmt.Errorf("mode must be data|analysis, got '%s'", s)
	}
}

// Report is a completed, stored report. Rows are insert-only: the store
// assigns the surrogate ID and never updates a stored report.
type Report struct {
	ID        int64      `json:"id"`
	Kind      ReportKind `json:"kind"`
	Mode      ReportMode `json:"mode"`
	Date      string     `json:"date"` // YYYY-MM-DD, aggregation-time local date
	Title     string     `json:"title"`
	Markdown  string     `json:"markdown"`
	Sources   []string   `json:"sources"` // ordered non-empty headline URLs
	CreatedAt time.Time  `json:"created_at"`
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportKind(t *testing.T) {
	tests := []struct {
		input    string
		expected ReportKind
		wantErr  bool
	}{
		{"daily", ReportKindDaily, false},
		{"weekly", ReportKindWeekly, false},
		{"monthly", ReportKindMonthly, false},
		{"DAILY", ReportKindDaily, false},
		{"  weekly  ", ReportKindWeekly, false},
		{"", "", true},
		{"yearly", "", true},
	}

	for _, tt := range tests {
		kind, err := ParseReportKind(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
		} else {
			require.NoError(t, err, "input %q", tt.input)
			assert.Equal(t, tt.expected, kind)
		}
	}
}

func TestParseReportMode_DefaultsToAnalysis(t *testing.T) {
	mode, err := ParseReportMode("")
	require.NoError(t, err)
	assert.Equal(t, ReportModeAnalysis, mode)
}

func TestParseReportMode(t *testing.T) {
	mode, err := ParseReportMode("data")
	require.NoError(t, err)
	assert.Equal(t, ReportModeData, mode)

	mode, err = ParseReportMode("Analysis")
	require.NoError(t, err)
	assert.Equal(t, ReportModeAnalysis, mode)

	_, err = ParseReportMode("summary")
	assert.Error(t, err)
}

// -----------------------------------------------------------------------
// Last Modified: Monday, 1st September 2025
// -----------------------------------------------------------------------

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/twokomi/oneclick-reports-backend/internal/common"
	"github.com/twokomi/oneclick-reports-backend/internal/interfaces"
	"github.com/twokomi/oneclick-reports-backend/internal/models"
	"github.com/twokomi/oneclick-reports-backend/internal/services/builder"
	"github.com/twokomi/oneclick-reports-backend/internal/services/composer"
	"github.com/twokomi/oneclick-reports-backend/internal/services/export"
	"github.com/twokomi/oneclick-reports-backend/internal/services/macro"
	"github.com/twokomi/oneclick-reports-backend/internal/services/news"
	"github.com/twokomi/oneclick-reports-backend/internal/services/notion"
	"github.com/twokomi/oneclick-reports-backend/internal/services/reports"
	"github.com/twokomi/oneclick-reports-backend/internal/storage/sqlite"
)

type stubFeed struct{}

func (f *stubFeed) Name() string { return "stub" }

func (f *stubFeed) Fetch(ctx context.Context, kind models.ReportKind, limit int) []models.Headline {
	return []models.Headline{{Title: "Markets open higher", URL: "https://example.com/1", Source: "stub"}}
}

type emptyMacroFeed struct{ name string }

func (f *emptyMacroFeed) Name() string     { return f.name }
func (f *emptyMacroFeed) Configured() bool { return false }

func (f *emptyMacroFeed) Latest(ctx context.Context, seriesID string) (interfaces.SeriesObservation, bool) {
	return interfaces.SeriesObservation{}, false
}

func setupReportHandler(t *testing.T) *ReportHandler {
	t.Helper()
	logger := arbor.NewLogger()

	db, err := sqlite.NewDB(logger, &common.SQLiteConfig{
		Path:          filepath.Join(t.TempDir(), "reports.db"),
		CacheSizeMB:   10,
		BusyTimeoutMS: 5000,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := sqlite.NewReportStorage(db, logger)

	newsAgg := news.NewAggregatorWithFeeds([]interfaces.NewsFeed{&stubFeed{}}, 5, 10, logger)
	enricher := macro.NewEnricher(&emptyMacroFeed{name: "FRED"}, &emptyMacroFeed{name: "ECOS"}, logger)
	profile := &common.ProfileConfig{RiskPreference: "neutral"}
	b := builder.New(newsAgg, enricher, profile, logger).WithClock(func() time.Time {
		return time.Date(2025, 9, 1, 8, 0, 0, 0, time.Local)
	})
	service := reports.NewService(b, composer.New(nil, logger), store, logger)

	exportDir := t.TempDir()
	return NewReportHandler(
		service,
		export.NewMarkdownExporter(exportDir, logger),
		export.NewPDFExporter(exportDir, logger),
		notion.NewPublisher(&common.NotionConfig{}, logger),
		logger,
	)
}

func createReport(t *testing.T, h *ReportHandler) *models.Report {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(`{"kind":"daily","mode":"data"}`))
	w := httptest.NewRecorder()
	h.CreateHandler(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var report models.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	return &report
}

func TestCreateHandler(t *testing.T) {
	h := setupReportHandler(t)

	report := createReport(t, h)
	assert.NotZero(t, report.ID)
	assert.Equal(t, models.ReportKindDaily, report.Kind)
	assert.Equal(t, "Daily Report (DATA) — 2025-09-01", report.Title)
	assert.Contains(t, report.Markdown, "Markets open higher")
}

func TestCreateHandler_UppercaseKind(t *testing.T) {
	h := setupReportHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(`{"kind":"DAILY","mode":"Data"}`))
	w := httptest.NewRecorder()
	h.CreateHandler(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var report models.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, models.ReportKindDaily, report.Kind)
	assert.Equal(t, models.ReportModeData, report.Mode)
}

func TestCreateHandler_InvalidJSON(t *testing.T) {
	h := setupReportHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.CreateHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateHandler_ValidationFailure(t *testing.T) {
	h := setupReportHandler(t)

	for _, body := range []string{
		`{}`,
		`{"kind":"yearly"}`,
		`{"kind":"daily","mode":"poetry"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.CreateHandler(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
}

func TestListHandler(t *testing.T) {
	h := setupReportHandler(t)
	createReport(t, h)
	createReport(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	w := httptest.NewRecorder()
	h.ListHandler(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count   int              `json:"count"`
		Reports []*models.Report `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Len(t, resp.Reports, 2)
}

func TestListHandler_BadFilter(t *testing.T) {
	h := setupReportHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/reports?kind=hourly", nil)
	w := httptest.NewRecorder()
	h.ListHandler(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetHandler(t *testing.T) {
	h := setupReportHandler(t)
	created := createReport(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/1", nil)
	w := httptest.NewRecorder()
	h.GetHandler(w, req, created.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var report models.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, created.Title, report.Title)
}

func TestGetHandler_NotFound(t *testing.T) {
	h := setupReportHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/9999", nil)
	w := httptest.NewRecorder()
	h.GetHandler(w, req, 9999)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportHandler(t *testing.T) {
	h := setupReportHandler(t)
	created := createReport(t, h)

	tests := []struct {
		format string
		ext    string
	}{
		{format: "", ext: ".md"},
		{format: "md", ext: ".md"},
		{format: "pdf", ext: ".pdf"},
	}
	for _, tt := range tests {
		url := "/api/reports/1/export"
		if tt.format != "" {
			url += "?format=" + tt.format
		}
		req := httptest.NewRequest(http.MethodPost, url, nil)
		w := httptest.NewRecorder()
		h.ExportHandler(w, req, created.ID)
		require.Equal(t, http.StatusOK, w.Code, "format: %q", tt.format)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp["status"])
		assert.True(t, strings.HasSuffix(resp["path"], tt.ext), "path: %s", resp["path"])
	}
}

func TestExportHandler_BadFormat(t *testing.T) {
	h := setupReportHandler(t)
	created := createReport(t, h)

	req := httptest.NewRequest(http.MethodPost, "/api/reports/1/export?format=docx", nil)
	w := httptest.NewRecorder()
	h.ExportHandler(w, req, created.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublishHandler_NotConfigured(t *testing.T) {
	h := setupReportHandler(t)
	created := createReport(t, h)

	req := httptest.NewRequest(http.MethodPost, "/api/reports/1/publish", nil)
	w := httptest.NewRecorder()
	h.PublishHandler(w, req, created.ID)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestParseReportID(t *testing.T) {
	id, err := ParseReportID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = ParseReportID("abc")
	assert.Error(t, err)
}

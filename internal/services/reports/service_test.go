// -----------------------------------------------------------------------
// Last Modified: Monday, 1st September 2025
// -----------------------------------------------------------------------

package reports

import (
	"context"
	"errors"
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
	"github.com/twokomi/oneclick-reports-backend/internal/services/macro"
	"github.com/twokomi/oneclick-reports-backend/internal/services/news"
	"github.com/twokomi/oneclick-reports-backend/internal/storage/sqlite"
)

type stubFeed struct {
	name      string
	headlines []models.Headline
}

func (f *stubFeed) Name() string { return f.name }

func (f *stubFeed) Fetch(ctx context.Context, kind models.ReportKind, limit int) []models.Headline {
	if len(f.headlines) > limit {
		return f.headlines[:limit]
	}
	return f.headlines
}

type stubMacroFeed struct {
	name   string
	series map[string]interfaces.SeriesObservation
}

func (f *stubMacroFeed) Name() string     { return f.name }
func (f *stubMacroFeed) Configured() bool { return true }

func (f *stubMacroFeed) Latest(ctx context.Context, seriesID string) (interfaces.SeriesObservation, bool) {
	obs, ok := f.series[seriesID]
	return obs, ok
}

type downFeed struct{ name string }

func (f *downFeed) Name() string { return f.name }

func (f *downFeed) Fetch(ctx context.Context, kind models.ReportKind, limit int) []models.Headline {
	return nil
}

type downMacroFeed struct{ name string }

func (f *downMacroFeed) Name() string     { return f.name }
func (f *downMacroFeed) Configured() bool { return false }

func (f *downMacroFeed) Latest(ctx context.Context, seriesID string) (interfaces.SeriesObservation, bool) {
	return interfaces.SeriesObservation{}, false
}

type failingStore struct{}

func (s *failingStore) Insert(ctx context.Context, report *models.Report) (int64, error) {
	return 0, errors.New("disk full")
}

func (s *failingStore) Get(ctx context.Context, id int64) (*models.Report, error) {
	return nil, interfaces.ErrReportNotFound
}

func (s *failingStore) List(ctx context.Context, kind models.ReportKind, mode models.ReportMode) ([]*models.Report, error) {
	return nil, nil
}

func (s *failingStore) Count(ctx context.Context) (int, error) { return 0, nil }
func (s *failingStore) Close() error                           { return nil }

func setupService(t *testing.T, store interfaces.ReportStorage) *Service {
	t.Helper()
	logger := arbor.NewLogger()

	newsAgg := news.NewAggregatorWithFeeds([]interfaces.NewsFeed{
		&stubFeed{name: "yna", headlines: []models.Headline{
			{Title: "Economy steady", URL: "https://example.com/a", Source: "yna"},
			{Title: "Exports up", URL: "https://example.com/b", Source: "yna"},
		}},
	}, 5, 10, logger)

	fred := &stubMacroFeed{name: "FRED", series: map[string]interfaces.SeriesObservation{
		"DGS10":   {Date: "2025-08-29", Value: 4.25},
		"DEXKOUS": {Date: "2025-08-29", Value: 1390.5},
	}}
	ecos := &stubMacroFeed{name: "ECOS", series: map[string]interfaces.SeriesObservation{}}
	enricher := macro.NewEnricher(fred, ecos, logger)

	profile := &common.ProfileConfig{
		RiskPreference: "neutral",
		Interests:      []string{"semiconductors"},
	}
	b := builder.New(newsAgg, enricher, profile, logger).WithClock(func() time.Time {
		return time.Date(2025, 9, 1, 8, 0, 0, 0, time.Local)
	})

	c := composer.New(nil, logger)
	return NewService(b, c, store, logger)
}

func setupStore(t *testing.T) interfaces.ReportStorage {
	t.Helper()
	db, err := sqlite.NewDB(arbor.NewLogger(), &common.SQLiteConfig{
		Path:          filepath.Join(t.TempDir(), "reports.db"),
		CacheSizeMB:   10,
		BusyTimeoutMS: 5000,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlite.NewReportStorage(db, arbor.NewLogger())
}

func TestService_CreateDataReport(t *testing.T) {
	store := setupStore(t)
	service := setupService(t, store)
	ctx := context.Background()

	report, err := service.Create(ctx, "daily", "data")
	require.NoError(t, err)

	assert.NotZero(t, report.ID)
	assert.Equal(t, models.ReportKindDaily, report.Kind)
	assert.Equal(t, models.ReportModeData, report.Mode)
	assert.Equal(t, "2025-09-01", report.Date)
	assert.Equal(t, "Daily Report (DATA) — 2025-09-01", report.Title)
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, report.Sources)
	assert.Contains(t, report.Markdown, "Economy steady")
	assert.Contains(t, report.Markdown, "UST10Y")

	// The stored row matches what Create returned.
	stored, err := service.Get(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Title, stored.Title)
	assert.Equal(t, report.Markdown, stored.Markdown)
}

func TestService_CreateDataReportAllSourcesDown(t *testing.T) {
	store := setupStore(t)
	logger := arbor.NewLogger()

	// Every external source is unreachable: the feed returns nothing and
	// neither macro provider is configured.
	newsAgg := news.NewAggregatorWithFeeds([]interfaces.NewsFeed{&downFeed{name: "yna"}}, 5, 10, logger)
	enricher := macro.NewEnricher(&downMacroFeed{name: "FRED"}, &downMacroFeed{name: "ECOS"}, logger)
	profile := &common.ProfileConfig{RiskPreference: "neutral"}
	b := builder.New(newsAgg, enricher, profile, logger).WithClock(func() time.Time {
		return time.Date(2025, 9, 1, 8, 0, 0, 0, time.Local)
	})
	service := NewService(b, composer.New(nil, logger), store, logger)

	report, err := service.Create(context.Background(), "daily", "data")
	require.NoError(t, err)

	assert.Equal(t, "Daily Report (DATA) — 2025-09-01", report.Title)
	assert.Equal(t, "2025-09-01", report.Date)
	assert.Empty(t, report.Sources)

	assert.True(t, strings.HasPrefix(report.Markdown, "# DAILY Data Report"))
	assert.NotContains(t, report.Markdown, "## Market Snapshot")
	assert.NotContains(t, report.Markdown, "## Macro Indicators")
	assert.NotContains(t, report.Markdown, "## News Headlines")
	assert.Contains(t, report.Markdown, "## Data Sources")

	stored, err := service.Get(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Markdown, stored.Markdown)
	assert.Empty(t, stored.Sources)
}

func TestService_CreateAnalysisDegrades(t *testing.T) {
	store := setupStore(t)
	service := setupService(t, store)

	// No generator is wired, so analysis mode persists the degraded body.
	report, err := service.Create(context.Background(), "daily", "analysis")
	require.NoError(t, err)

	assert.Equal(t, models.ReportModeAnalysis, report.Mode)
	assert.Equal(t, "Daily Report — 2025-09-01", report.Title)
	assert.Equal(t, composer.DegradedAnalysisBody, report.Markdown)
	// Sources still reflect the collected headlines.
	assert.Len(t, report.Sources, 2)
}

func TestService_CreateDefaultsToAnalysis(t *testing.T) {
	service := setupService(t, setupStore(t))

	report, err := service.Create(context.Background(), "weekly", "")
	require.NoError(t, err)
	assert.Equal(t, models.ReportModeAnalysis, report.Mode)
}

func TestService_CreateInvalidInput(t *testing.T) {
	service := setupService(t, setupStore(t))
	ctx := context.Background()

	_, err := service.Create(ctx, "yearly", "data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kind must be")

	_, err = service.Create(ctx, "daily", "poetry")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mode must be")
}

func TestService_CreateStoreFailure(t *testing.T) {
	service := setupService(t, &failingStore{})

	_, err := service.Create(context.Background(), "daily", "data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist report")
}

func TestService_ListAndCount(t *testing.T) {
	service := setupService(t, setupStore(t))
	ctx := context.Background()

	_, err := service.Create(ctx, "daily", "data")
	require.NoError(t, err)
	_, err = service.Create(ctx, "weekly", "data")
	require.NoError(t, err)

	all, err := service.List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	daily, err := service.List(ctx, "daily", "")
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, models.ReportKindDaily, daily[0].Kind)

	_, err = service.List(ctx, "hourly", "")
	require.Error(t, err)

	count, err := service.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

// Package builder assembles the canonical report aggregate from the
// news and macro stages.
package builder

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/twokomi/oneclick-reports-backend/internal/common"
	"github.com/twokomi/oneclick-reports-backend/internal/models"
	"github.com/twokomi/oneclick-reports-backend/internal/services/macro"
	"github.com/twokomi/oneclick-reports-backend/internal/services/news"
)

// Builder constructs one ReportAggregate per request. The aggregate's
// date is always the aggregation timestamp's local date, regardless of
// how individual sources date their items.
type Builder struct {
	news    *news.Aggregator
	macro   *macro.Enricher
	profile models.UserProfile
	logger  arbor.ILogger
	now     func() time.Time
}

// New creates a builder with the configured reader profile.
func New(newsAgg *news.Aggregator, enricher *macro.Enricher, profile *common.ProfileConfig, logger arbor.ILogger) *Builder {
	return &Builder{
		news:  newsAgg,
		macro: enricher,
		profile: models.UserProfile{
			RiskPreference: profile.RiskPreference,
			Interests:      append([]string(nil), profile.Interests...),
		},
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the time source. Tests use it to pin the
// aggregation date.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build assembles the aggregate for a report kind. Source failures have
// already been absorbed at the feed boundaries, so Build always
// succeeds; empty headline and macro sets are valid outcomes.
func (b *Builder) Build(ctx context.Context, kind models.ReportKind) models.ReportAggregate {
	agg := models.ReportAggregate{
		Date:      b.now().Local().Format("2006-01-02"),
		Headlines: b.news.Collect(ctx, kind),
		Profile:   b.profile,
	}

	agg = b.macro.Enrich(ctx, agg)

	if b.logger != nil {
		b.logger.Info().
			Str("kind", string(kind)).
			Str("date", agg.Date).
			Int("headlines", len(agg.Headlines)).
			Int("macro_series", len(agg.Macro)).
			Msg("report aggregate built")
	}
	return agg
}

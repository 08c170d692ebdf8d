// Package macro enriches a report aggregate with the latest
// observations of a fixed list of macroeconomic series.
package macro

import (
	"context"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/twokomi/oneclick-reports-backend/internal/feeds/ecos"
	"github.com/twokomi/oneclick-reports-backend/internal/feeds/fred"
	"github.com/twokomi/oneclick-reports-backend/internal/interfaces"
	"github.com/twokomi/oneclick-reports-backend/internal/models"
)

// routing classifies where a series value lands in the aggregate.
type routing int

const (
	routeMacroList routing = iota // scalar series appended to the macro list
	routeSnapshotRate             // rate-type series keyed into snapshot.Rates
	routeSnapshotFX               // FX-type series keyed into snapshot.FX
)

// seriesSpec is one entry of the fixed enrichment table. The routing is
// a per-series classification, never inferred from the value.
type seriesSpec struct {
	provider string // key into the enricher's feed map
	seriesID string
	route    routing
	key      string // snapshot map key (ticker or pair) for snapshot routes
	name     string // display name for macro-list routes
}

// enrichmentOrder is the fixed series enumeration. Both CPI entries are
// intentional: FRED and ECOS cover the same concept with different
// provenance and both observations are retained.
var enrichmentOrder = []seriesSpec{
	{provider: "fred", seriesID: fred.SeriesUST10Y, route: routeSnapshotRate, key: "UST10Y"},
	{provider: "fred", seriesID: fred.SeriesUSDKRW, route: routeSnapshotFX, key: "USDKRW"},
	{provider: "fred", seriesID: fred.SeriesUSCPI, route: routeMacroList, name: "US CPI (index)"},
	{provider: "fred", seriesID: fred.SeriesUnemp, route: routeMacroList, name: "US Unemployment Rate"},
	{provider: "fred", seriesID: fred.SeriesFedFunds, route: routeMacroList, name: "Fed Funds Rate"},
	{provider: "fred", seriesID: fred.SeriesKoreaCPI, route: routeMacroList, name: "Korea CPI (OECD/FRED)"},
	{provider: "ecos", seriesID: ecos.SeriesKoreaCPI, route: routeMacroList, name: "Korea CPI (ECOS)"},
}

// Enricher applies the fixed macro series table to an aggregate.
type Enricher struct {
	feeds  map[string]interfaces.MacroFeed
	logger arbor.ILogger
}

// NewEnricher creates an enricher over the standard FRED + ECOS feeds.
func NewEnricher(fredFeed, ecosFeed interfaces.MacroFeed, logger arbor.ILogger) *Enricher {
	return &Enricher{
		feeds: map[string]interfaces.MacroFeed{
			"fred": fredFeed,
			"ecos": ecosFeed,
		},
		logger: logger,
	}
}

// Enrich returns a copy of the aggregate with every available series
// observation applied in enumeration order. The input aggregate is not
// modified. A series whose provider is unconfigured, unreachable, or
// reports no data is skipped and has no effect on the others.
func (e *Enricher) Enrich(ctx context.Context, agg models.ReportAggregate) models.ReportAggregate {
	// Fetch concurrently into per-series slots; apply sequentially so
	// the macro list order matches the enumeration order.
	type slot struct {
		obs interfaces.SeriesObservation
		ok  bool
	}
	slots := make([]slot, len(enrichmentOrder))

	var wg sync.WaitGroup
	for i, spec := range enrichmentOrder {
		feed, ok := e.feeds[spec.provider]
		if !ok || feed == nil {
			continue
		}
		wg.Add(1)
		go func(i int, spec seriesSpec, feed interfaces.MacroFeed) {
			defer wg.Done()
			obs, ok := feed.Latest(ctx, spec.seriesID)
			slots[i] = slot{obs: obs, ok: ok}
		}(i, spec, feed)
	}
	wg.Wait()

	out := agg.Clone()
	for i, spec := range enrichmentOrder {
		if !slots[i].ok {
			if e.logger != nil {
				e.logger.Debug().
					Str("provider", spec.provider).
					Str("series", spec.seriesID).
					Msg("macro series absent, skipping")
			}
			continue
		}
		obs := slots[i].obs

		switch spec.route {
		case routeSnapshotRate:
			if out.Snapshot.Rates == nil {
				out.Snapshot.Rates = make(map[string]float64)
			}
			out.Snapshot.Rates[spec.key] = obs.Value
		case routeSnapshotFX:
			if out.Snapshot.FX == nil {
				out.Snapshot.FX = make(map[string]float64)
			}
			out.Snapshot.FX[spec.key] = obs.Value
		case routeMacroList:
			out.Macro = append(out.Macro, models.MacroObservation{
				Name:   spec.name,
				Latest: obs.Value,
				Note:   obs.Date,
			})
		}
	}
	return out
}

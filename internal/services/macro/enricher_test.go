package macro

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/twokomi/oneclick-reports-backend/internal/interfaces"
	"github.com/twokomi/oneclick-reports-backend/internal/models"
)

// stubMacroFeed serves canned observations keyed by series id.
type stubMacroFeed struct {
	name   string
	series map[string]interfaces.SeriesObservation
}

func (f *stubMacroFeed) Name() string     { return f.name }
func (f *stubMacroFeed) Configured() bool { return true }

func (f *stubMacroFeed) Latest(_ context.Context, seriesID string) (interfaces.SeriesObservation, bool) {
	obs, ok := f.series[seriesID]
	return obs, ok
}

// absentFeed is a feed with no credential: every series is absent.
type absentFeed struct{}

func (f *absentFeed) Name() string     { return "absent" }
func (f *absentFeed) Configured() bool { return false }

func (f *absentFeed) Latest(context.Context, string) (interfaces.SeriesObservation, bool) {
	return interfaces.SeriesObservation{}, false
}

func fullFredFeed() *stubMacroFeed {
	return &stubMacroFeed{
		name: "FRED",
		series: map[string]interfaces.SeriesObservation{
			"DGS10":           {Date: "2025-08-29", Value: 4.25},
			"DEXKOUS":         {Date: "2025-08-29", Value: 1390.5},
			"CPIAUCSL":        {Date: "2025-07-01", Value: 320.3},
			"UNRATE":          {Date: "2025-07-01", Value: 4.2},
			"FEDFUNDS":        {Date: "2025-07-01", Value: 4.33},
			"KORCPIALLMINMEI": {Date: "2025-06-01", Value: 114.2},
		},
	}
}

func fullEcosFeed() *stubMacroFeed {
	return &stubMacroFeed{
		name: "ECOS",
		series: map[string]interfaces.SeriesObservation{
			"901Y014": {Date: "202507", Value: 114.8},
		},
	}
}

func TestEnricher_RoutesSeriesIntoSnapshotAndMacroList(t *testing.T) {
	enricher := NewEnricher(fullFredFeed(), fullEcosFeed(), arbor.NewLogger())

	out := enricher.Enrich(context.Background(), models.ReportAggregate{Date: "2025-09-01"})

	// Rate and FX series land in the snapshot, not the macro list.
	require.NotNil(t, out.Snapshot.Rates)
	assert.Equal(t, 4.25, out.Snapshot.Rates["UST10Y"])
	require.NotNil(t, out.Snapshot.FX)
	assert.Equal(t, 1390.5, out.Snapshot.FX["USDKRW"])

	// The remaining five series append in enumeration order.
	require.Len(t, out.Macro, 5)
	names := make([]string, 0, len(out.Macro))
	for _, obs := range out.Macro {
		names = append(names, obs.Name)
	}
	assert.Equal(t, []string{
		"US CPI (index)",
		"US Unemployment Rate",
		"Fed Funds Rate",
		"Korea CPI (OECD/FRED)",
		"Korea CPI (ECOS)",
	}, names)
}

func TestEnricher_RetainsBothCPIObservations(t *testing.T) {
	enricher := NewEnricher(fullFredFeed(), fullEcosFeed(), arbor.NewLogger())

	out := enricher.Enrich(context.Background(), models.ReportAggregate{})

	// Same concept, different provenance: both Korea CPI entries stay.
	var koreaCPI []models.MacroObservation
	for _, obs := range out.Macro {
		if obs.Name == "Korea CPI (OECD/FRED)" || obs.Name == "Korea CPI (ECOS)" {
			koreaCPI = append(koreaCPI, obs)
		}
	}
	require.Len(t, koreaCPI, 2)
	assert.Equal(t, 114.2, koreaCPI[0].Latest)
	assert.Equal(t, 114.8, koreaCPI[1].Latest)
}

func TestEnricher_AbsentSeriesDoesNotAffectOthers(t *testing.T) {
	fredFeed := fullFredFeed()
	delete(fredFeed.series, "UNRATE")
	delete(fredFeed.series, "DGS10")
	enricher := NewEnricher(fredFeed, fullEcosFeed(), arbor.NewLogger())

	out := enricher.Enrich(context.Background(), models.ReportAggregate{})

	assert.NotContains(t, out.Snapshot.Rates, "UST10Y")
	assert.Equal(t, 1390.5, out.Snapshot.FX["USDKRW"])
	require.Len(t, out.Macro, 4)
	for _, obs := range out.Macro {
		assert.NotEqual(t, "US Unemployment Rate", obs.Name)
	}
}

func TestEnricher_UnconfiguredProvidersYieldUnchangedCopy(t *testing.T) {
	enricher := NewEnricher(&absentFeed{}, &absentFeed{}, arbor.NewLogger())
	in := models.ReportAggregate{
		Date:      "2025-09-01",
		Headlines: []models.Headline{{Title: "kept", Source: "Yonhap News"}},
	}

	out := enricher.Enrich(context.Background(), in)

	assert.True(t, out.Snapshot.IsEmpty())
	assert.Empty(t, out.Macro)
	assert.Equal(t, in.Headlines, out.Headlines)
	assert.Equal(t, in.Date, out.Date)
}

func TestEnricher_DoesNotMutateInput(t *testing.T) {
	enricher := NewEnricher(fullFredFeed(), fullEcosFeed(), arbor.NewLogger())
	in := models.ReportAggregate{Date: "2025-09-01"}

	_ = enricher.Enrich(context.Background(), in)

	assert.Nil(t, in.Snapshot.Rates)
	assert.Nil(t, in.Snapshot.FX)
	assert.Nil(t, in.Macro)
}

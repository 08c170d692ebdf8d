package interfaces

import (
	"context"

	"github.com/twokomi/oneclick-reports-backend/internal/models"
)

// NewsFeed is one configured news provider. Fetch failures are absorbed
// at the feed boundary: a feed call always returns (possibly zero
// headlines), never an error. Callers treat "no headlines" as a valid
// state, not a fallback trigger.
type NewsFeed interface {
	// Name identifies the provider in headline source tags and logs.
	Name() string

	// Fetch returns up to limit headlines in feed order for the given
	// report kind.
	Fetch(ctx context.Context, kind models.ReportKind, limit int) []models.Headline
}

// SeriesObservation is the latest observation of one macro series.
type SeriesObservation struct {
	Date  string
	Value float64
}

// MacroFeed exposes the "latest observation" operation of one macro
// data provider. A missing credential, a fetch failure, and the
// provider's no-data sentinel are indistinguishable to the caller: all
// surface as ok == false.
type MacroFeed interface {
	// Name identifies the provider in logs.
	Name() string

	// Configured reports whether the provider has a usable credential.
	Configured() bool

	// Latest returns the most recent observation for a series ID.
	Latest(ctx context.Context, seriesID string) (SeriesObservation, bool)
}

// -----------------------------------------------------------------------
// Last Modified: Monday, 1st September 2025
// -----------------------------------------------------------------------

// Package reports orchestrates report generation end to end: aggregate,
// render, title, persist. It is the layer the HTTP handlers and the
// scheduler both call into.
package reports

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/twokomi/oneclick-reports-backend/internal/interfaces"
	"github.com/twokomi/oneclick-reports-backend/internal/models"
	"github.com/twokomi/oneclick-reports-backend/internal/services/builder"
	"github.com/twokomi/oneclick-reports-backend/internal/services/composer"
)

// Service generates and retrieves reports. Source degradation never
// fails a generation request; only invalid input and storage failures
// surface as errors.
type Service struct {
	builder  *builder.Builder
	composer *composer.Composer
	store    interfaces.ReportStorage
	logger   arbor.ILogger
}

// NewService wires the generation pipeline to a report store.
func NewService(b *builder.Builder, c *composer.Composer, store interfaces.ReportStorage, logger arbor.ILogger) *Service {
	return &Service{
		builder:  b,
		composer: c,
		store:    store,
		logger:   logger,
	}
}

// Create generates a report for the given kind and mode, persists it,
// and returns the stored record. Kind and mode are validated before any
// source is contacted.
func (s *Service) Create(ctx context.Context, kindRaw, modeRaw string) (*models.Report, error) {
	kind, err := models.ParseReportKind(kindRaw)
	if err != nil {
		return nil, err
	}
	mode, err := models.ParseReportMode(modeRaw)
	if err != nil {
		return nil, err
	}

	agg := s.builder.Build(ctx, kind)

	markdown, err := s.composer.Render(ctx, kind, mode, agg)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		Kind:     kind,
		Mode:     mode,
		Date:     agg.Date,
		Title:    composer.Title(kind, mode, agg.Date),
		Markdown: markdown,
		Sources:  agg.SourceURLs(),
	}

	id, err := s.store.Insert(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("failed to persist report: %w", err)
	}

	s.logger.Info().
		Int64("id", id).
		Str("kind", string(kind)).
		Str("mode", string(mode)).
		Int("sources", len(report.Sources)).
		Msg("Report created")

	return report, nil
}

// Get returns a stored report by id.
func (s *Service) Get(ctx context.Context, id int64) (*models.Report, error) {
	return s.store.Get(ctx, id)
}

// List returns stored reports newest first, optionally filtered by kind
// and mode. Empty filter strings match everything.
func (s *Service) List(ctx context.Context, kindRaw, modeRaw string) ([]*models.Report, error) {
	var (
		kind models.ReportKind
		mode models.ReportMode
		err  error
	)
	if kindRaw != "" {
		if kind, err = models.ParseReportKind(kindRaw); err != nil {
			return nil, err
		}
	}
	if modeRaw != "" {
		if mode, err = models.ParseReportMode(modeRaw); err != nil {
			return nil, err
		}
	}
	return s.store.List(ctx, kind, mode)
}

// Count returns the number of stored reports.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

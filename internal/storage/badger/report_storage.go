// -----------------------------------------------------------------------
// Last Modified: Monday, 1st September 2025
// -----------------------------------------------------------------------

package badger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
	"github.com/twokomi/oneclick-reports-backend/internal/interfaces"
	"github.com/twokomi/oneclick-reports-backend/internal/models"
)

// reportRecord is the badgerhold representation of a report. The key field
// must be uint64 for NextSequence, so IDs are converted at the boundary.
type reportRecord struct {
	ID        uint64 `badgerhold:"key"`
	Kind      string `badgerholdIndex:"Kind"`
	Mode      string
	Date      string
	Title     string
	Markdown  string
	Sources   []string
	CreatedAt time.Time
}

func (r *reportRecord) toModel() *models.Report {
	return &models.Report{
		ID:        int64(r.ID),
		Kind:      models.ReportKind(r.Kind),
		Mode:      models.ReportMode(r.Mode),
		Date:      r.Date,
		Title:     r.Title,
		Markdown:  r.Markdown,
		Sources:   r.Sources,
		CreatedAt: r.CreatedAt,
	}
}

// ReportStorage is the badger-backed report store.
type ReportStorage struct {
	db     *DB
	logger arbor.ILogger
}

// NewReportStorage creates a report store on top of an open badger database.
func NewReportStorage(db *DB, logger arbor.ILogger) *ReportStorage {
	return &ReportStorage{db: db, logger: logger}
}

// Insert persists a report and returns its assigned id.
func (s *ReportStorage) Insert(ctx context.Context, report *models.Report) (int64, error) {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	record := &reportRecord{
		Kind:      string(report.Kind),
		Mode:      string(report.Mode),
		Date:      report.Date,
		Title:     report.Title,
		Markdown:  report.Markdown,
		Sources:   report.Sources,
		CreatedAt: report.CreatedAt,
	}

	if err := s.db.Store().Insert(badgerhold.NextSequence(), record); err != nil {
		return 0, fmt.Errorf("failed to insert report: %w", err)
	}
	report.ID = int64(record.ID)

	s.logger.Debug().Int64("id", report.ID).Str("kind", record.Kind).Msg("Report inserted")
	return report.ID, nil
}

// Get returns a report by id, or interfaces.ErrReportNotFound.
func (s *ReportStorage) Get(ctx context.Context, id int64) (*models.Report, error) {
	var record reportRecord
	err := s.db.Store().Get(uint64(id), &record)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report %d: %w", id, err)
	}
	return record.toModel(), nil
}

// List returns reports newest first (date, then id, both descending).
// Empty kind or mode means no filter on that field.
func (s *ReportStorage) List(ctx context.Context, kind models.ReportKind, mode models.ReportMode) ([]*models.Report, error) {
	var records []reportRecord
	var query *badgerhold.Query
	if kind != "" {
		query = badgerhold.Where("Kind").Eq(string(kind))
		if mode != "" {
			query = query.And("Mode").Eq(string(mode))
		}
	} else if mode != "" {
		query = badgerhold.Where("Mode").Eq(string(mode))
	}

	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	// Badger iterates in key order, so ordering is applied here to match
	// the sqlite backend.
	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		return records[i].ID > records[j].ID
	})

	reports := make([]*models.Report, 0, len(records))
	for i := range records {
		reports = append(reports, records[i].toModel())
	}
	return reports, nil
}

// Count returns the total number of stored reports.
func (s *ReportStorage) Count(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&reportRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return int(count), nil
}

// Close closes the underlying database.
func (s *ReportStorage) Close() error {
	return s.db.Close()
}

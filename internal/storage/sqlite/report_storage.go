// -----------------------------------------------------------------------
// Last Modified: Monday, 1st September 2025
// -----------------------------------------------------------------------

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/twokomi/oneclick-reports-backend/internal/interfaces"
	"github.com/twokomi/oneclick-reports-backend/internal/models"
)

// ReportStorage is the sqlite-backed report store. Reports are append only;
// there is no update or delete path.
type ReportStorage struct {
	db     *DB
	logger arbor.ILogger
}

// NewReportStorage creates a report store on top of an open database.
func NewReportStorage(db *DB, logger arbor.ILogger) *ReportStorage {
	return &ReportStorage{db: db, logger: logger}
}

// Insert persists a report and returns its assigned id.
func (s *ReportStorage) Insert(ctx context.Context, report *models.Report) (int64, error) {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	sources, err := json.Marshal(report.Sources)
	if err != nil {
		return 0, fmt.Errorf("failed to encode sources: %w", err)
	}

	result, err := s.db.Conn().ExecContext(ctx,
		`INSERT INTO reports (kind, mode, date, title, markdown, sources, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(report.Kind), string(report.Mode), report.Date, report.Title,
		report.Markdown, string(sources), report.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("failed to insert report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read insert id: %w", err)
	}
	report.ID = id

	s.logger.Debug().Int64("id", id).Str("kind", string(report.Kind)).Msg("Report inserted")
	return id, nil
}

// Get returns a report by id, or interfaces.ErrReportNotFound.
func (s *ReportStorage) Get(ctx context.Context, id int64) (*models.Report, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT id, kind, mode, date, title, markdown, sources, created_at
		 FROM reports WHERE id = ?`, id)

	report, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, interfaces.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report %d: %w", id, err)
	}
	return report, nil
}

// List returns reports newest first (date, then id, both descending).
// Empty kind or mode means no filter on that column.
func (s *ReportStorage) List(ctx context.Context, kind models.ReportKind, mode models.ReportMode) ([]*models.Report, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(kind))
	}
	if mode != "" {
		conditions = append(conditions, "mode = ?")
		args = append(args, string(mode))
	}

	query := `SELECT id, kind, mode, date, title, markdown, sources, created_at FROM reports`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*models.Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// Count returns the total number of stored reports.
func (s *ReportStorage) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM reports`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

// Close closes the underlying database.
func (s *ReportStorage) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row rowScanner) (*models.Report, error) {
	var (
		report    models.Report
		kind      string
		mode      string
		sources   string
		createdAt string
	)
	if err := row.Scan(&report.ID, &kind, &mode, &report.Date, &report.Title,
		&report.Markdown, &sources, &createdAt); err != nil {
		return nil, err
	}
	report.Kind = models.ReportKind(kind)
	report.Mode = models.ReportMode(mode)
	if err := json.Unmarshal([]byte(sources), &report.Sources); err != nil {
		return nil, fmt.Errorf("failed to decode sources: %w", err)
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		report.CreatedAt = ts
	}
	return &report, nil
}

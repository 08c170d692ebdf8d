package interfaces

import (
	"context"
	"errors"

	"github.com/twokomi/oneclick-reports-backend/internal/models"
)

// ErrReportNotFound is returned by Get when no report has the requested ID.
var ErrReportNotFound = errors.New("report not found")

// ReportStorage - append-only persistence for completed reports.
// Implementations assign monotonic surrogate IDs on insert and never
// update or delete stored rows.
type ReportStorage interface {
	// Insert stores a report and returns the assigned ID.
	Insert(ctx context.Context, report *models.Report) (int64, error)

	// Get returns the report with the given ID, or an error if absent.
	Get(ctx context.Context, id int64) (*models.Report, error)

	// List returns stored reports ordered by date descending then ID
	// descending. Empty kind/mode match everything.
	List(ctx context.Context, kind models.ReportKind, mode models.ReportMode) ([]*models.Report, error)

	// Count returns the number of stored reports.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying storage engine.
	Close() error
}

package interfaces

import (
	"context"

	"github.com/twokomi/oneclick-reports-backend/internal/models"
)

// FileExporter renders a stored report into an export artifact on disk
// and returns the written file path.
type FileExporter interface {
	Export(report *models.Report) (string, error)
}

// Publisher pushes a stored report to an external workspace target.
type Publisher interface {
	Publish(ctx context.Context, report *models.Report) error
}

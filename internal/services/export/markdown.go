// -----------------------------------------------------------------------
// Last Modified: Monday, 1st September 2025
// -----------------------------------------------------------------------

// Package export writes stored reports to disk as markdown or PDF.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"

	"github.com/twokomi/oneclick-reports-backend/internal/models"
)

// MarkdownExporter writes the report body verbatim to a .md file.
type MarkdownExporter struct {
	dir    string
	logger arbor.ILogger
}

// NewMarkdownExporter creates an exporter targeting the given directory.
func NewMarkdownExporter(dir string, logger arbor.ILogger) *MarkdownExporter {
	return &MarkdownExporter{dir: dir, logger: logger}
}

// Export writes the report markdown and returns the file path.
func (e *MarkdownExporter) Export(report *models.Report) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(e.dir, exportFileName(report, "md"))
	if err := os.WriteFile(path, []byte(report.Markdown), 0o644); err != nil {
		return "", fmt.Errorf("failed to write markdown export: %w", err)
	}

	e.logger.Info().Str("path", path).Int64("report_id", report.ID).Msg("Markdown export written")
	return path, nil
}

func exportFileName(report *models.Report, ext string) string {
	return fmt.Sprintf("report-%d-%s-%s.%s", report.ID, report.Kind, report.Date, ext)
}

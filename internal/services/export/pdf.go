// -----------------------------------------------------------------------
// Last Modified: Monday, 1st September 2025
// -----------------------------------------------------------------------

package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/twokomi/oneclick-reports-backend/internal/models"
)

// PDFExporter renders the report markdown to an A4 PDF. Report bodies
// are headings, paragraphs, small tables, and numbered headline lists,
// so the renderer covers exactly those node kinds.
type PDFExporter struct {
	dir    string
	logger arbor.ILogger
}

// NewPDFExporter creates an exporter targeting the given directory.
func NewPDFExporter(dir string, logger arbor.ILogger) *PDFExporter {
	return &PDFExporter{dir: dir, logger: logger}
}

// Export renders the report to PDF and returns the file path.
func (e *PDFExporter) Export(report *models.Report) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	data, err := renderPDF(report)
	if err != nil {
		return "", fmt.Errorf("failed to render PDF: %w", err)
	}

	path := filepath.Join(e.dir, exportFileName(report, "pdf"))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write PDF export: %w", err)
	}

	e.logger.Info().Str("path", path).Int64("report_id", report.ID).Msg("PDF export written")
	return path, nil
}

func renderPDF(report *models.Report) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()
	pdf.SetTitle(report.Title, true)
	pdf.SetFont("Arial", "", 10)

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	source := []byte(report.Markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	r := &pdfWriter{pdf: pdf, source: source}
	if err := ast.Walk(doc, r.walk); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type pdfWriter struct {
	pdf    *fpdf.Fpdf
	source []byte
	bold   bool
	inList bool
}

func (r *pdfWriter) setFont(size float64) {
	style := ""
	if r.bold {
		style = "B"
	}
	r.pdf.SetFont("Arial", style, size)
}

func (r *pdfWriter) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			r.pdf.Ln(5)
			size := 15.0 - float64(node.Level)
			if size < 10 {
				size = 10
			}
			r.pdf.SetFont("Arial", "B", size)
		} else {
			r.pdf.Ln(6)
			r.setFont(10)
		}
	case *ast.Paragraph:
		if !entering && !r.inList {
			r.pdf.Ln(6)
		}
	case *ast.Text:
		if entering {
			r.pdf.Write(5, toLatin(string(node.Text(r.source))))
		}
	case *ast.Emphasis:
		if node.Level == 2 {
			r.bold = entering
			r.setFont(10)
		}
	case *ast.List:
		r.inList = entering
		if !entering {
			r.pdf.Ln(4)
		}
	case *ast.ListItem:
		if entering {
			r.pdf.Ln(5)
			r.pdf.SetX(16)
			r.pdf.Write(5, "- ")
		}
	case *extast.Table:
		if entering {
			r.renderTable(node)
			return ast.WalkSkipChildren, nil
		}
	}
	return ast.WalkContinue, nil
}

func (r *pdfWriter) renderTable(table *extast.Table) {
	// A TableHeader is itself a row of cells, same shape as TableRow.
	var rows [][]string
	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *extast.TableHeader, *extast.TableRow:
			rows = append(rows, r.extractRow(child))
		}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}

	r.pdf.Ln(2)
	width := 186.0 / float64(len(rows[0]))
	for i, row := range rows {
		if i == 0 {
			r.pdf.SetFont("Arial", "B", 9)
		} else {
			r.pdf.SetFont("Arial", "", 9)
		}
		for _, cell := range row {
			r.pdf.CellFormat(width, 6, toLatin(cell), "1", 0, "L", false, 0, "")
		}
		r.pdf.Ln(-1)
	}
	r.pdf.Ln(3)
	r.setFont(10)
}

func (r *pdfWriter) extractRow(n ast.Node) []string {
	var row []string
	for cell := n.FirstChild(); cell != nil; cell = cell.NextSibling() {
		row = append(row, string(cell.Text(r.source)))
	}
	return row
}

// toLatin replaces characters outside the core fonts' cp1252 range with
// '?'. Korean headline text survives in the markdown export; the PDF is
// a plain-text artifact.
func toLatin(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c < 0x100 {
			b.WriteRune(c)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}

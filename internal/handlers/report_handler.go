// -----------------------------------------------------------------------
// Last Modified: Monday, 1st September 2025
// -----------------------------------------------------------------------

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/twokomi/oneclick-reports-backend/internal/interfaces"
	"github.com/twokomi/oneclick-reports-backend/internal/models"
	"github.com/twokomi/oneclick-reports-backend/internal/services/notion"
	"github.com/twokomi/oneclick-reports-backend/internal/services/reports"
)

// CreateReportRequest is the POST /api/reports payload.
type CreateReportRequest struct {
	Kind string `json:"kind" validate:"required,oneof=daily weekly monthly"`
	Mode string `json:"mode" validate:"omitempty,oneof=data analysis"`
}

// ReportHandler serves report generation, retrieval, export, and
// publishing endpoints.
type ReportHandler struct {
	service   *reports.Service
	markdown  interfaces.FileExporter
	pdf       interfaces.FileExporter
	publisher interfaces.Publisher
	validate  *validator.Validate
	logger    arbor.ILogger
}

func NewReportHandler(service *reports.Service, markdown, pdf interfaces.FileExporter, publisher interfaces.Publisher, logger arbor.ILogger) *ReportHandler {
	return &ReportHandler{
		service:   service,
		markdown:  markdown,
		pdf:       pdf,
		publisher: publisher,
		validate:  validator.New(),
		logger:    logger,
	}
}

// CreateHandler generates and stores a new report.
// POST /api/reports
func (h *ReportHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	req.Kind = strings.ToLower(strings.TrimSpace(req.Kind))
	req.Mode = strings.ToLower(strings.TrimSpace(req.Mode))
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.service.Create(r.Context(), req.Kind, req.Mode)
	if err != nil {
		h.logger.Error().Err(err).Str("kind", req.Kind).Str("mode", req.Mode).Msg("Report creation failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, report)
}

// ListHandler returns stored reports, newest first.
// GET /api/reports?kind=daily&mode=data
func (h *ReportHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), r.URL.Query().Get("kind"), r.URL.Query().Get("mode"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(list),
		"reports": list,
	})
}

// GetHandler returns a stored report by id.
// GET /api/reports/{id}
func (h *ReportHandler) GetHandler(w http.ResponseWriter, r *http.Request, id int64) {
	report, ok := h.fetch(w, r, id)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// ExportHandler writes a report to disk as markdown or PDF and returns
// the file path.
// POST /api/reports/{id}/export?format=md|pdf
func (h *ReportHandler) ExportHandler(w http.ResponseWriter, r *http.Request, id int64) {
	report, ok := h.fetch(w, r, id)
	if !ok {
		return
	}

	var exporter interfaces.FileExporter
	format := r.URL.Query().Get("format")
	switch format {
	case "", "md", "markdown":
		exporter = h.markdown
	case "pdf":
		exporter = h.pdf
	default:
		WriteError(w, http.StatusBadRequest, "format must be 'md' or 'pdf'")
		return
	}

	path, err := exporter.Export(report)
	if err != nil {
		h.logger.Error().Err(err).Int64("id", id).Str("format", format).Msg("Report export failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"path":   path,
	})
}

// PublishHandler pushes a report to the configured Notion page.
// POST /api/reports/{id}/publish
func (h *ReportHandler) PublishHandler(w http.ResponseWriter, r *http.Request, id int64) {
	report, ok := h.fetch(w, r, id)
	if !ok {
		return
	}

	if err := h.publisher.Publish(r.Context(), report); err != nil {
		if errors.Is(err, notion.ErrNotConfigured) {
			WriteError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		h.logger.Error().Err(err).Int64("id", id).Msg("Report publish failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteSuccess(w, "Report published")
}

func (h *ReportHandler) fetch(w http.ResponseWriter, r *http.Request, id int64) (*models.Report, bool) {
	report, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, interfaces.ErrReportNotFound) {
			WriteError(w, http.StatusNotFound, "Report not found")
		} else {
			WriteError(w, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}
	return report, true
}

// ParseReportID parses the numeric id segment of a report route.
func ParseReportID(segment string) (int64, error) {
	return strconv.ParseInt(segment, 10, 64)
}

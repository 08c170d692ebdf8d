// -----------------------------------------------------------------------
// Last Modified: Monday, 1st September 2025
// -----------------------------------------------------------------------

package server

import (
	"net/http"
	"strings"

	"github.com/twokomi/oneclick-reports-backend/internal/handlers"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Reports
	mux.HandleFunc("/api/reports", s.handleReportsCollection) // GET (list), POST (create)
	mux.HandleFunc("/api/reports/", s.handleReportRoutes)     // GET /{id}, POST /{id}/export, POST /{id}/publish

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	return mux
}

func (s *Server) handleReportsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.app.ReportHandler.ListHandler(w, r)
	case http.MethodPost:
		s.app.ReportHandler.CreateHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleReportRoutes dispatches /api/reports/{id} and its subpaths.
func (s *Server) handleReportRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/reports/"), "/")
	segments := strings.Split(rest, "/")
	if len(segments) == 0 || segments[0] == "" {
		s.app.APIHandler.NotFoundHandler(w, r)
		return
	}

	id, err := handlers.ParseReportID(segments[0])
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "Invalid report id")
		return
	}

	switch {
	case len(segments) == 1 && r.Method == http.MethodGet:
		s.app.ReportHandler.GetHandler(w, r, id)
	case len(segments) == 2 && segments[1] == "export" && r.Method == http.MethodPost:
		s.app.ReportHandler.ExportHandler(w, r, id)
	case len(segments) == 2 && segments[1] == "publish" && r.Method == http.MethodPost:
		s.app.ReportHandler.PublishHandler(w, r, id)
	case len(segments) == 1:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		s.app.APIHandler.NotFoundHandler(w, r)
	}
}

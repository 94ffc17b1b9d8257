package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/applytrackapp/applytrack-server/internal/http/response"
	"github.com/applytrackapp/applytrack-server/internal/service"
)

// handleCreateApplication logs a new application against a resume.
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var req service.CreateApplicationRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	app, err := s.applicationService.Create(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, app, s.logger)
}

// handleListResumeApplications returns the applications logged against one resume.
func (s *Server) handleListResumeApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.applicationService.GetByResume(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, apps, s.logger)
}

// handleListApplications returns the user's applications across all
// resumes, honoring status and date-range query filters.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	apps, err := s.applicationService.GetByUser(r.Context(), getUserID(r.Context()), service.ListApplicationsRequest{
		Status:   q.Get("status"),
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, apps, s.logger)
}

// handleGetApplication returns one application record.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := s.applicationService.GetByID(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, app, s.logger)
}

// handleUpdateApplication updates an application's fields.
func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateApplicationRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	app, err := s.applicationService.Update(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, app, s.logger)
}

// handleDeleteApplication removes an application record.
func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	deletedID, err := s.applicationService.Delete(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]string{"deleted_id": deletedID}, s.logger)
}

// handleGetApplicationStats returns the user's application aggregate.
func (s *Server) handleGetApplicationStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.applicationService.GetStats(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, stats, s.logger)
}

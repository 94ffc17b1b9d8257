package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/applytrackapp/applytrack-server/internal/http/response"
	"github.com/applytrackapp/applytrack-server/internal/service"
)

// handleGetMetadata returns a resume's metadata record.
func (s *Server) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	meta, err := s.metadataService.Get(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, meta, s.logger)
}

// handleUpdateMetadata applies a combined notes and tags update.
func (s *Server) handleUpdateMetadata(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateMetadataRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	meta, err := s.metadataService.UpdateCombined(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, meta, s.logger)
}

// handleUpdateNotes replaces a resume's notes.
func (s *Server) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes *string `json:"notes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	meta, err := s.metadataService.UpdateNotes(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), req.Notes)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, meta, s.logger)
}

// handleUpdateTags replaces the full tag list (strict: blank entries reject).
func (s *Server) handleUpdateTags(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tags []string `json:"tags"`
	}
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	meta, err := s.metadataService.UpdateTags(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), req.Tags)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, meta, s.logger)
}

// handleAddTag appends a single tag.
func (s *Server) handleAddTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tag string `json:"tag"`
	}
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	meta, err := s.metadataService.AddTag(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), req.Tag)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, meta, s.logger)
}

// handleRemoveTag removes one tag; absent tags are a no-op.
func (s *Server) handleRemoveTag(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	if decoded, err := url.PathUnescape(tag); err == nil {
		tag = decoded
	}

	meta, err := s.metadataService.RemoveTag(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), tag)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, meta, s.logger)
}

// handleSearchResumesByTag returns the user's resumes carrying an exact tag.
func (s *Server) handleSearchResumesByTag(w http.ResponseWriter, r *http.Request) {
	results, err := s.metadataService.SearchByTag(r.Context(), getUserID(r.Context()), r.URL.Query().Get("tag"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, results, s.logger)
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/applytrackapp/applytrack-server/internal/http/response"
	"github.com/applytrackapp/applytrack-server/internal/service"
)

// handleCreatePosition creates a new target position.
func (s *Server) handleCreatePosition(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePositionRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	pos, err := s.positionService.Create(r.Context(), getUserID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, pos, s.logger)
}

// handleListPositions returns the user's positions.
func (s *Server) handleListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := s.positionService.List(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, positions, s.logger)
}

// handleGetPosition returns one position with its live resume count.
func (s *Server) handleGetPosition(w http.ResponseWriter, r *http.Request) {
	pos, err := s.positionService.GetByID(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, pos, s.logger)
}

// handleUpdatePosition updates a position's name and/or description.
func (s *Server) handleUpdatePosition(w http.ResponseWriter, r *http.Request) {
	var req service.UpdatePositionRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	pos, err := s.positionService.Update(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, pos, s.logger)
}

// handleDeletePosition deletes a position without resumes.
func (s *Server) handleDeletePosition(w http.ResponseWriter, r *http.Request) {
	err := s.positionService.Delete(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

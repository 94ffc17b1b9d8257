package api

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/applytrackapp/applytrack-server/internal/domain"
	domainerrors "github.com/applytrackapp/applytrack-server/internal/errors"
	"github.com/applytrackapp/applytrack-server/internal/http/response"
	"github.com/applytrackapp/applytrack-server/internal/id"
	"github.com/applytrackapp/applytrack-server/internal/service"
)

// handleCreateOnlineResume creates an online-authored resume under a position.
func (s *Server) handleCreateOnlineResume(w http.ResponseWriter, r *http.Request) {
	var req service.CreateOnlineResumeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	resume, err := s.resumeService.CreateOnline(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, resume, s.logger)
}

// handleUploadFileResume accepts a multipart upload ("file" part plus a
// "title" field) and creates a file-kind resume. The blob is written
// before the database row; if the create fails the orphaned blob is
// removed best-effort.
func (s *Server) handleUploadFileResume(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())
	positionID := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(domain.MaxResumeFileSize); err != nil {
		response.BadRequest(w, "Invalid multipart form", s.logger)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Missing file upload", s.logger)
		return
	}
	defer file.Close()

	if header.Size > domain.MaxResumeFileSize {
		response.HandleError(w, domainerrors.Validationf("file must not exceed %d bytes", int64(domain.MaxResumeFileSize)), s.logger)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, domain.MaxResumeFileSize+1))
	if err != nil {
		response.InternalError(w, "Failed to read upload", s.logger)
		return
	}
	if int64(len(data)) > domain.MaxResumeFileSize {
		response.HandleError(w, domainerrors.Validationf("file must not exceed %d bytes", int64(domain.MaxResumeFileSize)), s.logger)
		return
	}

	blobKey, err := id.Generate("blob")
	if err != nil {
		response.InternalError(w, "Failed to store upload", s.logger)
		return
	}
	path, err := s.blobs.Save(blobKey, header.Filename, data)
	if err != nil {
		s.logger.Error("Failed to store resume blob", "error", err, "user_id", userID)
		response.InternalError(w, "Failed to store upload", s.logger)
		return
	}

	resume, err := s.resumeService.CreateFile(r.Context(), userID, positionID, service.CreateFileResumeRequest{
		Title:    r.FormValue("title"),
		FilePath: path,
		FileName: header.Filename,
		FileSize: int64(len(data)),
	})
	if err != nil {
		if delErr := s.blobs.Delete(path); delErr != nil {
			s.logger.Warn("Failed to remove orphaned blob", "path", path, "error", delErr)
		}
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, resume, s.logger)
}

// handleListResumes returns the resumes under a position.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	resumes, err := s.resumeService.ListByPosition(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, resumes, s.logger)
}

// handleGetResume returns one resume with metadata and position attached.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	resume, err := s.resumeService.GetByID(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, resume, s.logger)
}

// handleUpdateOnlineResume updates an online resume's title and/or content.
func (s *Server) handleUpdateOnlineResume(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateOnlineResumeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	resume, err := s.resumeService.UpdateOnline(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, resume, s.logger)
}

// handleDeleteResume deletes a resume and everything under it.
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.resumeService.Delete(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, deleted, s.logger)
}

// handleDownloadResumeFile streams a file-kind resume's stored blob.
func (s *Server) handleDownloadResumeFile(w http.ResponseWriter, r *http.Request) {
	resume, err := s.resumeService.GetByID(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if !resume.IsFile() || resume.FilePath == nil {
		response.HandleError(w, domainerrors.Validation("resume has no stored file"), s.logger)
		return
	}

	data, err := s.blobs.Get(*resume.FilePath)
	if err != nil {
		s.logger.Error("Failed to read resume blob", "error", err, "resume_id", resume.ID)
		response.NotFound(w, "Resume file not found", s.logger)
		return
	}

	fileName := "resume"
	if resume.FileName != nil {
		fileName = *resume.FileName
	}
	contentType := mime.TypeByExtension(filepath.Ext(fileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("Failed to write resume file response", "error", err)
	}
}

// Package api provides the HTTP API server and handlers for the ApplyTrack application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/applytrackapp/applytrack-server/internal/blob"
	"github.com/applytrackapp/applytrack-server/internal/http/response"
	"github.com/applytrackapp/applytrack-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	credentialService  *service.CredentialService
	positionService    *service.PositionService
	resumeService      *service.ResumeService
	metadataService    *service.MetadataService
	applicationService *service.ApplicationService
	blobs              *blob.Storage
	router             *chi.Mux
	logger             *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	credentialService *service.CredentialService,
	positionService *service.PositionService,
	resumeService *service.ResumeService,
	metadataService *service.MetadataService,
	applicationService *service.ApplicationService,
	blobs *blob.Storage,
	logger *slog.Logger,
) *Server {
	s := &Server{
		credentialService:  credentialService,
		positionService:    positionService,
		resumeService:      resumeService,
		metadataService:    metadataService,
		applicationService: applicationService,
		blobs:              blobs,
		router:             chi.NewRouter(),
		logger:             logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public).
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
		})

		// Everything below requires a valid token.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/users/me", s.handleGetCurrentUser)

			r.Route("/positions", func(r chi.Router) {
				r.Post("/", s.handleCreatePosition)
				r.Get("/", s.handleListPositions)
				r.Get("/{id}", s.handleGetPosition)
				r.Patch("/{id}", s.handleUpdatePosition)
				r.Delete("/{id}", s.handleDeletePosition)

				r.Post("/{id}/resumes", s.handleCreateOnlineResume)
				r.Post("/{id}/resumes/file", s.handleUploadFileResume)
				r.Get("/{id}/resumes", s.handleListResumes)
			})

			r.Route("/resumes", func(r chi.Router) {
				r.Get("/search", s.handleSearchResumesByTag)
				r.Get("/{id}", s.handleGetResume)
				r.Patch("/{id}", s.handleUpdateOnlineResume)
				r.Delete("/{id}", s.handleDeleteResume)
				r.Get("/{id}/file", s.handleDownloadResumeFile)

				r.Route("/{id}/metadata", func(r chi.Router) {
					r.Get("/", s.handleGetMetadata)
					r.Put("/", s.handleUpdateMetadata)
					r.Put("/notes", s.handleUpdateNotes)
					r.Put("/tags", s.handleUpdateTags)
					r.Post("/tags", s.handleAddTag)
					r.Delete("/tags/{tag}", s.handleRemoveTag)
				})

				r.Post("/{id}/applications", s.handleCreateApplication)
				r.Get("/{id}/applications", s.handleListResumeApplications)
			})

			r.Route("/applications", func(r chi.Router) {
				r.Get("/", s.handleListApplications)
				r.Get("/stats", s.handleGetApplicationStats)
				r.Get("/{id}", s.handleGetApplication)
				r.Patch("/{id}", s.handleUpdateApplication)
				r.Delete("/{id}", s.handleDeleteApplication)
			})
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}

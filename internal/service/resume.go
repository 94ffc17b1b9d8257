package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/applytrackapp/applytrack-server/internal/blob"
	"github.com/applytrackapp/applytrack-server/internal/cache"
	"github.com/applytrackapp/applytrack-server/internal/domain"
	domainerrors "github.com/applytrackapp/applytrack-server/internal/errors"
	"github.com/applytrackapp/applytrack-server/internal/id"
	"github.com/applytrackapp/applytrack-server/internal/store"
)

// ResumeService manages resume versions under target positions. A resume
// and its metadata record are created in one atomic unit and removed the
// same way; deletion also cascades to the resume's application records.
type ResumeService struct {
	store      store.Store
	blobs      *blob.Storage
	statsCache *cache.Cache[*domain.ApplicationStats]
	metaCache  *cache.Cache[*domain.ResumeMetadata]
	logger     *slog.Logger
}

// NewResumeService creates a new resume service.
func NewResumeService(
	st store.Store,
	blobs *blob.Storage,
	statsCache *cache.Cache[*domain.ApplicationStats],
	metaCache *cache.Cache[*domain.ResumeMetadata],
	logger *slog.Logger,
) *ResumeService {
	return &ResumeService{
		store:      st,
		blobs:      blobs,
		statsCache: statsCache,
		metaCache:  metaCache,
		logger:     logger,
	}
}

// CreateOnlineResumeRequest contains the fields for an online-authored
// resume. Content must be present; an empty string is a valid empty draft.
type CreateOnlineResumeRequest struct {
	Title   string  `json:"title"`
	Content *string `json:"content"`
}

// CreateFileResumeRequest contains the fields for an uploaded-file resume.
// FilePath is where the blob was stored; FileName is the original upload
// name.
type CreateFileResumeRequest struct {
	Title    string `json:"title"`
	FilePath string `json:"file_path"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
}

// UpdateOnlineResumeRequest contains the fields to change on an online
// resume. Nil fields are left untouched; at least one must be set.
type UpdateOnlineResumeRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// DeletedResume identifies a removed resume and what kind it was, so
// callers know whether a stored file went with it.
type DeletedResume struct {
	ID   string            `json:"id"`
	Kind domain.ResumeKind `json:"kind"`
}

// CreateOnline adds an online-authored resume under a position the user
// owns. Ownership is checked before any field validation so probing with
// bad input reveals nothing about other users' positions.
func (s *ResumeService) CreateOnline(ctx context.Context, userID, positionID string, req CreateOnlineResumeRequest) (*domain.ResumeVersion, error) {
	if _, err := ownedPosition(ctx, s.store, userID, positionID); err != nil {
		return nil, err
	}

	title, err := normalizeResumeTitle(req.Title)
	if err != nil {
		return nil, err
	}
	if req.Content == nil {
		return nil, domainerrors.Validation("content is required for an online resume")
	}

	resume := &domain.ResumeVersion{
		PositionID: positionID,
		Kind:       domain.ResumeKindOnline,
		Title:      title,
		Content:    req.Content,
	}
	return s.createResume(ctx, userID, resume)
}

// CreateFile adds an uploaded-file resume under a position the user owns.
// The caller stores the blob first and passes its path here.
func (s *ResumeService) CreateFile(ctx context.Context, userID, positionID string, req CreateFileResumeRequest) (*domain.ResumeVersion, error) {
	if _, err := ownedPosition(ctx, s.store, userID, positionID); err != nil {
		return nil, err
	}

	title, err := normalizeResumeTitle(req.Title)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.FilePath) == "" {
		return nil, domainerrors.Validation("file path cannot be empty")
	}
	if strings.TrimSpace(req.FileName) == "" {
		return nil, domainerrors.Validation("file name cannot be empty")
	}
	if req.FileSize < 0 || req.FileSize > domain.MaxResumeFileSize {
		return nil, domainerrors.Validationf("file size must be between 0 and %d bytes", int64(domain.MaxResumeFileSize))
	}

	resume := &domain.ResumeVersion{
		PositionID: positionID,
		Kind:       domain.ResumeKindFile,
		Title:      title,
		FilePath:   &req.FilePath,
		FileName:   &req.FileName,
		FileSize:   &req.FileSize,
	}
	return s.createResume(ctx, userID, resume)
}

// createResume assigns IDs, builds the paired empty metadata record, and
// persists both in one transaction.
func (s *ResumeService) createResume(ctx context.Context, userID string, resume *domain.ResumeVersion) (*domain.ResumeVersion, error) {
	resumeID, err := id.Generate("res")
	if err != nil {
		return nil, fmt.Errorf("generate resume ID: %w", err)
	}
	metaID, err := id.Generate("meta")
	if err != nil {
		return nil, fmt.Errorf("generate metadata ID: %w", err)
	}

	resume.ID = resumeID
	resume.InitTimestamps()

	meta := &domain.ResumeMetadata{
		Entity:   domain.Entity{ID: metaID},
		ResumeID: resumeID,
		Tags:     []string{},
	}
	meta.InitTimestamps()

	if err := s.store.CreateResumeWithMetadata(ctx, resume, meta); err != nil {
		return nil, fmt.Errorf("create resume: %w", err)
	}
	resume.Metadata = meta

	s.logger.Info("resume created",
		"resume_id", resumeID,
		"position_id", resume.PositionID,
		"user_id", userID,
		"kind", resume.Kind,
	)
	return resume, nil
}

// ListByPosition returns the resumes under a position the user owns,
// newest first, each with its metadata attached.
func (s *ResumeService) ListByPosition(ctx context.Context, userID, positionID string) ([]*domain.ResumeVersion, error) {
	if _, err := ownedPosition(ctx, s.store, userID, positionID); err != nil {
		return nil, err
	}

	resumes, err := s.store.ListResumesByPosition(ctx, positionID)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	return resumes, nil
}

// GetByID retrieves a resume the user owns, with its metadata and parent
// position attached.
func (s *ResumeService) GetByID(ctx context.Context, userID, resumeID string) (*domain.ResumeVersion, error) {
	resume, pos, err := ownedResume(ctx, s.store, userID, resumeID)
	if err != nil {
		return nil, err
	}

	meta, err := s.store.GetMetadataByResume(ctx, resumeID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get metadata: %w", err)
	}
	resume.Metadata = meta
	resume.Position = pos
	return resume, nil
}

// UpdateOnline changes an online resume's title and/or content. Updating a
// file-kind resume this way is rejected; file resumes are replaced by
// deleting and re-uploading.
func (s *ResumeService) UpdateOnline(ctx context.Context, userID, resumeID string, req UpdateOnlineResumeRequest) (*domain.ResumeVersion, error) {
	resume, _, err := ownedResume(ctx, s.store, userID, resumeID)
	if err != nil {
		return nil, err
	}
	if !resume.IsOnline() {
		return nil, domainerrors.Validation("only online resumes can be edited; re-upload file resumes instead")
	}
	if req.Title == nil && req.Content == nil {
		return nil, domainerrors.Validation("no fields to update")
	}

	if req.Title != nil {
		title, err := normalizeResumeTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		resume.Title = title
	}
	if req.Content != nil {
		resume.Content = req.Content
	}

	resume.Touch()
	if err := s.store.UpdateResume(ctx, resume); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("resume not found")
		}
		return nil, fmt.Errorf("update resume: %w", err)
	}

	s.logger.Info("resume updated", "resume_id", resumeID, "user_id", userID)
	return resume, nil
}

// Delete removes a resume, its metadata record, and all of its application
// records in one transaction, then drops the stored file for file-kind
// resumes. Blob removal is best-effort: the database row is the source of
// truth, so a failed unlink is logged and never surfaced.
func (s *ResumeService) Delete(ctx context.Context, userID, resumeID string) (*DeletedResume, error) {
	resume, _, err := ownedResume(ctx, s.store, userID, resumeID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteResumeCascade(ctx, resumeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("resume not found")
		}
		return nil, fmt.Errorf("delete resume: %w", err)
	}

	if resume.IsFile() && resume.FilePath != nil {
		if err := s.blobs.Delete(*resume.FilePath); err != nil {
			s.logger.Warn("failed to delete resume file",
				"resume_id", resumeID,
				"path", *resume.FilePath,
				"error", err,
			)
		}
	}

	s.statsCache.Delete(cache.ApplicationStatsKey(userID))
	s.metaCache.Delete(cache.ResumeMetadataKey(resumeID))

	s.logger.Info("resume deleted",
		"resume_id", resumeID,
		"user_id", userID,
		"kind", resume.Kind,
	)
	return &DeletedResume{ID: resumeID, Kind: resume.Kind}, nil
}

// normalizeResumeTitle trims and validates a resume title.
func normalizeResumeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", domainerrors.Validation("resume title cannot be empty")
	}
	if len(title) > domain.MaxResumeTitleLen {
		return "", domainerrors.Validationf("resume title must not exceed %d characters", domain.MaxResumeTitleLen)
	}
	return title, nil
}

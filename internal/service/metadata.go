package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/applytrackapp/applytrack-server/internal/cache"
	"github.com/applytrackapp/applytrack-server/internal/domain"
	domainerrors "github.com/applytrackapp/applytrack-server/internal/errors"
	"github.com/applytrackapp/applytrack-server/internal/id"
	"github.com/applytrackapp/applytrack-server/internal/store"
)

// MetadataService manages the notes/tags annotation attached 1:1 to every
// resume version. Reads go through the metadata cache; every write updates
// the store and drops the cached entry in the same call.
type MetadataService struct {
	store     store.Store
	metaCache *cache.Cache[*domain.ResumeMetadata]
	logger    *slog.Logger
}

// NewMetadataService creates a new metadata service.
func NewMetadataService(st store.Store, metaCache *cache.Cache[*domain.ResumeMetadata], logger *slog.Logger) *MetadataService {
	return &MetadataService{
		store:     st,
		metaCache: metaCache,
		logger:    logger,
	}
}

// UpdateMetadataRequest carries a combined notes+tags update. Nil fields
// are left untouched.
type UpdateMetadataRequest struct {
	Notes *string   `json:"notes"`
	Tags  *[]string `json:"tags"`
}

// Get returns the metadata for a resume the user owns. Resumes created
// before metadata became mandatory may lack a record; Get transparently
// creates an empty one so callers always see exactly one.
func (s *MetadataService) Get(ctx context.Context, userID, resumeID string) (*domain.ResumeMetadata, error) {
	if _, _, err := ownedResume(ctx, s.store, userID, resumeID); err != nil {
		return nil, err
	}

	return s.metaCache.Wrap(cache.ResumeMetadataKey(resumeID), func() (*domain.ResumeMetadata, error) {
		return s.ensureMetadata(ctx, resumeID)
	})
}

// UpdateNotes replaces a resume's notes. A nil value clears the notes; an
// empty string is stored as-is, distinct from cleared.
func (s *MetadataService) UpdateNotes(ctx context.Context, userID, resumeID string, notes *string) (*domain.ResumeMetadata, error) {
	if _, _, err := ownedResume(ctx, s.store, userID, resumeID); err != nil {
		return nil, err
	}
	if notes != nil && len(*notes) > domain.MaxNotesLen {
		return nil, domainerrors.Validationf("notes must not exceed %d characters", domain.MaxNotesLen)
	}

	meta, err := s.ensureMetadata(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	meta.Notes = notes

	if err := s.saveMetadata(ctx, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// AddTag appends a single tag. The tag is trimmed, must be non-empty and
// within length limits, must not already be present, and must not push the
// resume past the tag cap.
func (s *MetadataService) AddTag(ctx context.Context, userID, resumeID, tag string) (*domain.ResumeMetadata, error) {
	if _, _, err := ownedResume(ctx, s.store, userID, resumeID); err != nil {
		return nil, err
	}

	tag, err := normalizeTag(tag)
	if err != nil {
		return nil, err
	}

	meta, err := s.ensureMetadata(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	if meta.HasTag(tag) {
		return nil, domainerrors.Conflictf("tag %q already exists", tag)
	}
	if len(meta.Tags) >= domain.MaxTags {
		return nil, domainerrors.Validationf("a resume can have at most %d tags", domain.MaxTags)
	}

	meta.Tags = append(meta.Tags, tag)
	if err := s.saveMetadata(ctx, meta); err != nil {
		return nil, err
	}

	s.logger.Info("tag added", "resume_id", resumeID, "tag", tag)
	return meta, nil
}

// RemoveTag removes a tag if present. Removing an absent tag is a no-op,
// not an error.
func (s *MetadataService) RemoveTag(ctx context.Context, userID, resumeID, tag string) (*domain.ResumeMetadata, error) {
	if _, _, err := ownedResume(ctx, s.store, userID, resumeID); err != nil {
		return nil, err
	}

	meta, err := s.ensureMetadata(ctx, resumeID)
	if err != nil {
		return nil, err
	}

	tag = strings.TrimSpace(tag)
	if !meta.HasTag(tag) {
		return meta, nil
	}

	meta.Tags = slices.DeleteFunc(meta.Tags, func(t string) bool { return t == tag })
	if err := s.saveMetadata(ctx, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// UpdateTags replaces the full tag list. This is the strict variant: any
// entry that is blank after trimming rejects the whole call.
func (s *MetadataService) UpdateTags(ctx context.Context, userID, resumeID string, tags []string) (*domain.ResumeMetadata, error) {
	if _, _, err := ownedResume(ctx, s.store, userID, resumeID); err != nil {
		return nil, err
	}

	normalized, err := normalizeTagList(tags, false)
	if err != nil {
		return nil, err
	}

	meta, err := s.ensureMetadata(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	meta.Tags = normalized

	if err := s.saveMetadata(ctx, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// UpdateCombined applies a notes and/or tags update in one write. Nil
// fields are left untouched; clearing notes goes through UpdateNotes.
// Unlike UpdateTags, blank tag entries are silently filtered rather than
// rejected, matching the bulk-edit surface this backs.
func (s *MetadataService) UpdateCombined(ctx context.Context, userID, resumeID string, req UpdateMetadataRequest) (*domain.ResumeMetadata, error) {
	if _, _, err := ownedResume(ctx, s.store, userID, resumeID); err != nil {
		return nil, err
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLen {
		return nil, domainerrors.Validationf("notes must not exceed %d characters", domain.MaxNotesLen)
	}

	var tags []string
	if req.Tags != nil {
		normalized, err := normalizeTagList(*req.Tags, true)
		if err != nil {
			return nil, err
		}
		tags = normalized
	}

	meta, err := s.ensureMetadata(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	if req.Notes != nil {
		meta.Notes = req.Notes
	}
	if req.Tags != nil {
		meta.Tags = tags
	}

	if err := s.saveMetadata(ctx, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// SearchByTag returns all of the user's resumes carrying an exact tag,
// joined with their metadata and parent positions.
func (s *MetadataService) SearchByTag(ctx context.Context, userID, tag string) ([]*domain.TagSearchResult, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, domainerrors.Validation("search tag cannot be empty")
	}

	results, err := s.store.SearchMetadataByTag(ctx, userID, tag)
	if err != nil {
		return nil, fmt.Errorf("search by tag: %w", err)
	}
	return results, nil
}

// ensureMetadata fetches a resume's metadata record, creating an empty one
// if none exists yet.
func (s *MetadataService) ensureMetadata(ctx context.Context, resumeID string) (*domain.ResumeMetadata, error) {
	meta, err := s.store.GetMetadataByResume(ctx, resumeID)
	if err == nil {
		return meta, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get metadata: %w", err)
	}

	metaID, err := id.Generate("meta")
	if err != nil {
		return nil, fmt.Errorf("generate metadata ID: %w", err)
	}
	meta = &domain.ResumeMetadata{
		Entity:   domain.Entity{ID: metaID},
		ResumeID: resumeID,
		Tags:     []string{},
	}
	meta.InitTimestamps()

	if err := s.store.CreateMetadata(ctx, meta); err != nil {
		return nil, fmt.Errorf("create metadata: %w", err)
	}
	s.logger.Info("metadata backfilled", "resume_id", resumeID)
	return meta, nil
}

// saveMetadata persists a metadata record and drops its cache entry.
func (s *MetadataService) saveMetadata(ctx context.Context, meta *domain.ResumeMetadata) error {
	meta.Touch()
	if err := s.store.UpdateMetadata(ctx, meta); err != nil {
		return fmt.Errorf("update metadata: %w", err)
	}
	s.metaCache.Delete(cache.ResumeMetadataKey(meta.ResumeID))
	return nil
}

// normalizeTag trims and validates a single tag.
func normalizeTag(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", domainerrors.Validation("tag cannot be empty")
	}
	if len(tag) > domain.MaxTagLen {
		return "", domainerrors.Validationf("tag must not exceed %d characters", domain.MaxTagLen)
	}
	return tag, nil
}

// normalizeTagList trims every entry and enforces per-tag and list limits.
// When filterBlanks is true, entries blank after trimming are dropped;
// otherwise they reject the list. Repeated values collapse to their first
// occurrence; only AddTag treats a duplicate as an error.
func normalizeTagList(tags []string, filterBlanks bool) ([]string, error) {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			if filterBlanks {
				continue
			}
			return nil, domainerrors.Validation("tag cannot be empty")
		}
		if len(trimmed) > domain.MaxTagLen {
			return nil, domainerrors.Validationf("tag must not exceed %d characters", domain.MaxTagLen)
		}
		if slices.Contains(normalized, trimmed) {
			continue
		}
		normalized = append(normalized, trimmed)
	}
	if len(normalized) > domain.MaxTags {
		return nil, domainerrors.Validationf("a resume can have at most %d tags", domain.MaxTags)
	}
	return normalized, nil
}

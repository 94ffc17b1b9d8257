package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/applytrackapp/applytrack-server/internal/domain"
	domainerrors "github.com/applytrackapp/applytrack-server/internal/errors"
	"github.com/applytrackapp/applytrack-server/internal/id"
	"github.com/applytrackapp/applytrack-server/internal/store"
)

// PositionService manages target positions: the user-defined job-role
// buckets that resume versions hang off.
type PositionService struct {
	store  store.Store
	logger *slog.Logger
}

// NewPositionService creates a new position service.
func NewPositionService(st store.Store, logger *slog.Logger) *PositionService {
	return &PositionService{store: st, logger: logger}
}

// CreatePositionRequest contains the fields for a new position.
type CreatePositionRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdatePositionRequest contains the fields to change on a position.
// Nil fields are left untouched.
type UpdatePositionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Create adds a new position for the user. Names are trimmed and must be
// unique per owner (case-sensitive). An empty description normalizes to
// none.
func (s *PositionService) Create(ctx context.Context, userID string, req CreatePositionRequest) (*domain.TargetPosition, error) {
	name, err := normalizePositionName(req.Name)
	if err != nil {
		return nil, err
	}

	positionID, err := id.Generate("pos")
	if err != nil {
		return nil, fmt.Errorf("generate position ID: %w", err)
	}

	pos := &domain.TargetPosition{
		Entity:      domain.Entity{ID: positionID},
		OwnerUserID: userID,
		Name:        name,
		Description: normalizeDescription(req.Description),
	}
	pos.InitTimestamps()

	if err := s.store.CreatePosition(ctx, pos); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("a position with this name already exists")
		}
		return nil, fmt.Errorf("create position: %w", err)
	}

	s.logger.Info("position created",
		"position_id", positionID,
		"user_id", userID,
		"name", name,
	)
	return pos, nil
}

// List returns the user's positions, newest first.
func (s *PositionService) List(ctx context.Context, userID string) ([]*domain.TargetPosition, error) {
	positions, err := s.store.ListPositionsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	return positions, nil
}

// GetByID retrieves a position the user owns, with its live resume count.
func (s *PositionService) GetByID(ctx context.Context, userID, positionID string) (*domain.TargetPosition, error) {
	pos, err := ownedPosition(ctx, s.store, userID, positionID)
	if err != nil {
		return nil, err
	}

	count, err := s.store.CountResumesForPosition(ctx, positionID)
	if err != nil {
		return nil, fmt.Errorf("count resumes: %w", err)
	}
	pos.ResumeCount = count
	return pos, nil
}

// Update changes a position's name and/or description. Supplied fields
// get the same validation as Create; the duplicate-name check excludes
// the position itself so a no-op rename succeeds.
func (s *PositionService) Update(ctx context.Context, userID, positionID string, req UpdatePositionRequest) (*domain.TargetPosition, error) {
	pos, err := ownedPosition(ctx, s.store, userID, positionID)
	if err != nil {
		return nil, err
	}

	if req.Name == nil && req.Description == nil {
		return nil, domainerrors.Validation("no fields to update")
	}

	if req.Name != nil {
		name, err := normalizePositionName(*req.Name)
		if err != nil {
			return nil, err
		}
		taken, err := s.store.PositionNameTaken(ctx, userID, name, positionID)
		if err != nil {
			return nil, fmt.Errorf("check position name: %w", err)
		}
		if taken {
			return nil, domainerrors.Conflict("a position with this name already exists")
		}
		pos.Name = name
	}
	if req.Description != nil {
		pos.Description = normalizeDescription(req.Description)
	}

	pos.Touch()
	if err := s.store.UpdatePosition(ctx, pos); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("a position with this name already exists")
		}
		return nil, fmt.Errorf("update position: %w", err)
	}

	s.logger.Info("position updated",
		"position_id", positionID,
		"user_id", userID,
	)
	return pos, nil
}

// Delete removes a position. Deletion is blocked while any resume still
// references it; the caller must remove the resumes first. The conflict
// carries the live resume count.
func (s *PositionService) Delete(ctx context.Context, userID, positionID string) error {
	if _, err := ownedPosition(ctx, s.store, userID, positionID); err != nil {
		return err
	}

	count, err := s.store.CountResumesForPosition(ctx, positionID)
	if err != nil {
		return fmt.Errorf("count resumes: %w", err)
	}
	if count > 0 {
		return domainerrors.Conflictf("position still has %d resume(s); remove them first", count).
			WithDetails(map[string]int{"resume_count": count})
	}

	if err := s.store.DeletePosition(ctx, positionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("position not found")
		}
		return fmt.Errorf("delete position: %w", err)
	}

	s.logger.Info("position deleted",
		"position_id", positionID,
		"user_id", userID,
	)
	return nil
}

// normalizePositionName trims and validates a position name.
func normalizePositionName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domainerrors.Validation("position name cannot be empty")
	}
	if len(name) > domain.MaxPositionNameLen {
		return "", domainerrors.Validationf("position name must not exceed %d characters", domain.MaxPositionNameLen)
	}
	return name, nil
}

// normalizeDescription trims a description; empty becomes none.
func normalizeDescription(desc *string) *string {
	if desc == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*desc)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

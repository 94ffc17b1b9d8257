// Package service implements the ApplyTrack domain operations: credential
// management, target positions, resume versions, resume metadata, and
// application records. Services enforce the User → TargetPosition →
// ResumeVersion → {ResumeMetadata, ApplicationRecord} ownership chain and
// own all field validation; handlers stay thin.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/applytrackapp/applytrack-server/internal/domain"
	domainerrors "github.com/applytrackapp/applytrack-server/internal/errors"
	"github.com/applytrackapp/applytrack-server/internal/store"
)

// ownedPosition loads a position and verifies the acting user owns it.
// A missing id is NotFound; an existing position owned by someone else is
// Forbidden.
func ownedPosition(ctx context.Context, st store.Store, userID, positionID string) (*domain.TargetPosition, error) {
	pos, err := st.GetPosition(ctx, positionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("position not found")
		}
		return nil, fmt.Errorf("get position: %w", err)
	}
	if pos.OwnerUserID != userID {
		return nil, domainerrors.Forbidden("you do not own this position")
	}
	return pos, nil
}

// ownedResume loads a resume and walks the chain up to its position,
// verifying the acting user owns it. Returns both the resume and its
// parent position so callers avoid a second lookup.
func ownedResume(ctx context.Context, st store.Store, userID, resumeID string) (*domain.ResumeVersion, *domain.TargetPosition, error) {
	resume, err := st.GetResume(ctx, resumeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.NotFound("resume not found")
		}
		return nil, nil, fmt.Errorf("get resume: %w", err)
	}

	pos, err := st.GetPosition(ctx, resume.PositionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Chain is broken; treat the resume as unreachable.
			return nil, nil, domainerrors.NotFound("resume not found")
		}
		return nil, nil, fmt.Errorf("get position: %w", err)
	}
	if pos.OwnerUserID != userID {
		return nil, nil, domainerrors.Forbidden("you do not own this resume")
	}
	return resume, pos, nil
}

// ownedApplication loads an application record and walks the chain up to
// the owning user through its resume and position.
func ownedApplication(ctx context.Context, st store.Store, userID, applicationID string) (*domain.ApplicationRecord, error) {
	app, err := st.GetApplication(ctx, applicationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("application not found")
		}
		return nil, fmt.Errorf("get application: %w", err)
	}

	_, _, err = ownedResume(ctx, st, userID, app.ResumeID)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrForbidden) {
			return nil, domainerrors.Forbidden("you do not own this application")
		}
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("application not found")
		}
		return nil, err
	}
	return app, nil
}

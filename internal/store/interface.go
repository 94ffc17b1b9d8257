// Package store defines the persistence interface for the ApplyTrack server.
package store

import (
	"context"

	"github.com/applytrackapp/applytrack-server/internal/domain"
)

// ApplicationFilter narrows ListApplicationsByUser results. Zero values
// mean "no filter"; DateFrom/DateTo are inclusive YYYY-MM-DD bounds and
// either may be set independently.
type ApplicationFilter struct {
	Status   domain.ApplicationStatus
	DateFrom string
	DateTo   string
}

// Store defines the interface for all persistence operations.
//
// Implementations must guarantee two atomic units: CreateResumeWithMetadata
// writes the resume row and its metadata row in one commit/rollback unit,
// and DeleteResumeCascade removes the resume, its metadata, and all its
// application records in one unit. A concurrent reader never observes a
// resume without metadata or metadata without a resume.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// Target positions
	CreatePosition(ctx context.Context, pos *domain.TargetPosition) error
	GetPosition(ctx context.Context, id string) (*domain.TargetPosition, error)
	ListPositionsByOwner(ctx context.Context, ownerUserID string) ([]*domain.TargetPosition, error)
	UpdatePosition(ctx context.Context, pos *domain.TargetPosition) error
	DeletePosition(ctx context.Context, id string) error
	PositionNameTaken(ctx context.Context, ownerUserID, name, excludeID string) (bool, error)
	CountResumesForPosition(ctx context.Context, positionID string) (int, error)

	// Resume versions
	CreateResumeWithMetadata(ctx context.Context, resume *domain.ResumeVersion, meta *domain.ResumeMetadata) error
	GetResume(ctx context.Context, id string) (*domain.ResumeVersion, error)
	ListResumesByPosition(ctx context.Context, positionID string) ([]*domain.ResumeVersion, error)
	UpdateResume(ctx context.Context, resume *domain.ResumeVersion) error
	DeleteResumeCascade(ctx context.Context, id string) error

	// Resume metadata
	CreateMetadata(ctx context.Context, meta *domain.ResumeMetadata) error
	GetMetadataByResume(ctx context.Context, resumeID string) (*domain.ResumeMetadata, error)
	UpdateMetadata(ctx context.Context, meta *domain.ResumeMetadata) error
	SearchMetadataByTag(ctx context.Context, ownerUserID, tag string) ([]*domain.TagSearchResult, error)

	// Application records
	CreateApplication(ctx context.Context, app *domain.ApplicationRecord) error
	GetApplication(ctx context.Context, id string) (*domain.ApplicationRecord, error)
	ListApplicationsByResume(ctx context.Context, resumeID string) ([]*domain.ApplicationRecord, error)
	ListApplicationsByUser(ctx context.Context, userID string, filter ApplicationFilter) ([]*domain.ApplicationRecord, error)
	UpdateApplication(ctx context.Context, app *domain.ApplicationRecord) error
	DeleteApplication(ctx context.Context, id string) error
	GetApplicationStats(ctx context.Context, userID string) (*domain.ApplicationStats, error)
}

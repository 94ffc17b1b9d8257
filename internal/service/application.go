package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/applytrackapp/applytrack-server/internal/cache"
	"github.com/applytrackapp/applytrack-server/internal/clock"
	"github.com/applytrackapp/applytrack-server/internal/domain"
	domainerrors "github.com/applytrackapp/applytrack-server/internal/errors"
	"github.com/applytrackapp/applytrack-server/internal/id"
	"github.com/applytrackapp/applytrack-server/internal/store"
)

// ApplicationService manages application records: logged attempts to apply
// to a company with a specific resume version. Every write invalidates the
// user's cached stats aggregate.
type ApplicationService struct {
	store      store.Store
	statsCache *cache.Cache[*domain.ApplicationStats]
	clk        clock.Clock
	logger     *slog.Logger
}

// NewApplicationService creates a new application service.
func NewApplicationService(
	st store.Store,
	statsCache *cache.Cache[*domain.ApplicationStats],
	clk clock.Clock,
	logger *slog.Logger,
) *ApplicationService {
	return &ApplicationService{
		store:      st,
		statsCache: statsCache,
		clk:        clk,
		logger:     logger,
	}
}

// CreateApplicationRequest contains the fields for a new application
// record. Status defaults to applied when omitted.
type CreateApplicationRequest struct {
	CompanyName   string  `json:"company_name"`
	PositionTitle *string `json:"position_title"`
	ApplyDate     string  `json:"apply_date"`
	Status        string  `json:"status"`
	Notes         *string `json:"notes"`
}

// UpdateApplicationRequest contains the fields to change on an application
// record. Nil fields are left untouched.
type UpdateApplicationRequest struct {
	CompanyName   *string `json:"company_name"`
	PositionTitle *string `json:"position_title"`
	ApplyDate     *string `json:"apply_date"`
	Status        *string `json:"status"`
	Notes         *string `json:"notes"`
}

// ListApplicationsRequest carries the optional filters for a cross-resume
// listing. Dates are inclusive YYYY-MM-DD bounds.
type ListApplicationsRequest struct {
	Status   string `json:"status"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}

// Create logs a new application against a resume the user owns.
func (s *ApplicationService) Create(ctx context.Context, userID, resumeID string, req CreateApplicationRequest) (*domain.ApplicationRecord, error) {
	if _, _, err := ownedResume(ctx, s.store, userID, resumeID); err != nil {
		return nil, err
	}

	companyName, err := normalizeCompanyName(req.CompanyName)
	if err != nil {
		return nil, err
	}
	positionTitle, err := normalizePositionTitle(req.PositionTitle)
	if err != nil {
		return nil, err
	}
	applyDate, err := s.checkApplyDate(req.ApplyDate)
	if err != nil {
		return nil, err
	}
	status, err := normalizeStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLen {
		return nil, domainerrors.Validationf("notes must not exceed %d characters", domain.MaxNotesLen)
	}

	appID, err := id.Generate("app")
	if err != nil {
		return nil, fmt.Errorf("generate application ID: %w", err)
	}

	app := &domain.ApplicationRecord{
		Entity:        domain.Entity{ID: appID},
		ResumeID:      resumeID,
		CompanyName:   companyName,
		PositionTitle: positionTitle,
		ApplyDate:     applyDate,
		Status:        status,
		Notes:         req.Notes,
	}
	app.InitTimestamps()

	if err := s.store.CreateApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.statsCache.Delete(cache.ApplicationStatsKey(userID))

	s.logger.Info("application created",
		"application_id", appID,
		"resume_id", resumeID,
		"user_id", userID,
		"company", companyName,
	)
	return app, nil
}

// GetByResume returns the applications logged against a resume the user
// owns, most recent apply date first.
func (s *ApplicationService) GetByResume(ctx context.Context, userID, resumeID string) ([]*domain.ApplicationRecord, error) {
	if _, _, err := ownedResume(ctx, s.store, userID, resumeID); err != nil {
		return nil, err
	}

	apps, err := s.store.ListApplicationsByResume(ctx, resumeID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// GetByUser returns the user's applications across all resumes, optionally
// filtered by status and an inclusive apply-date range.
func (s *ApplicationService) GetByUser(ctx context.Context, userID string, req ListApplicationsRequest) ([]*domain.ApplicationRecord, error) {
	var filter store.ApplicationFilter

	if req.Status != "" {
		status := domain.ApplicationStatus(req.Status)
		if !status.IsValid() {
			return nil, domainerrors.Validationf("invalid status %q", req.Status)
		}
		filter.Status = status
	}
	if req.DateFrom != "" {
		if _, err := time.Parse(clock.DateFormat, req.DateFrom); err != nil {
			return nil, domainerrors.Validation("date_from must be a YYYY-MM-DD date")
		}
		filter.DateFrom = req.DateFrom
	}
	if req.DateTo != "" {
		if _, err := time.Parse(clock.DateFormat, req.DateTo); err != nil {
			return nil, domainerrors.Validation("date_to must be a YYYY-MM-DD date")
		}
		filter.DateTo = req.DateTo
	}

	apps, err := s.store.ListApplicationsByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// GetByID retrieves an application the user owns.
func (s *ApplicationService) GetByID(ctx context.Context, userID, applicationID string) (*domain.ApplicationRecord, error) {
	return ownedApplication(ctx, s.store, userID, applicationID)
}

// Update changes an application's fields. Supplied fields get the same
// validation as Create.
func (s *ApplicationService) Update(ctx context.Context, userID, applicationID string, req UpdateApplicationRequest) (*domain.ApplicationRecord, error) {
	app, err := ownedApplication(ctx, s.store, userID, applicationID)
	if err != nil {
		return nil, err
	}

	if req.CompanyName == nil && req.PositionTitle == nil && req.ApplyDate == nil &&
		req.Status == nil && req.Notes == nil {
		return nil, domainerrors.Validation("no fields to update")
	}

	if req.CompanyName != nil {
		companyName, err := normalizeCompanyName(*req.CompanyName)
		if err != nil {
			return nil, err
		}
		app.CompanyName = companyName
	}
	if req.PositionTitle != nil {
		positionTitle, err := normalizePositionTitle(req.PositionTitle)
		if err != nil {
			return nil, err
		}
		app.PositionTitle = positionTitle
	}
	if req.ApplyDate != nil {
		applyDate, err := s.checkApplyDate(*req.ApplyDate)
		if err != nil {
			return nil, err
		}
		app.ApplyDate = applyDate
	}
	if req.Status != nil {
		status := domain.ApplicationStatus(*req.Status)
		if !status.IsValid() {
			return nil, domainerrors.Validationf("invalid status %q", *req.Status)
		}
		app.Status = status
	}
	if req.Notes != nil {
		if len(*req.Notes) > domain.MaxNotesLen {
			return nil, domainerrors.Validationf("notes must not exceed %d characters", domain.MaxNotesLen)
		}
		app.Notes = req.Notes
	}

	app.Touch()
	if err := s.store.UpdateApplication(ctx, app); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("application not found")
		}
		return nil, fmt.Errorf("update application: %w", err)
	}

	s.statsCache.Delete(cache.ApplicationStatsKey(userID))

	s.logger.Info("application updated",
		"application_id", applicationID,
		"user_id", userID,
	)
	return app, nil
}

// Delete removes an application the user owns and returns its id.
func (s *ApplicationService) Delete(ctx context.Context, userID, applicationID string) (string, error) {
	if _, err := ownedApplication(ctx, s.store, userID, applicationID); err != nil {
		return "", err
	}

	if err := s.store.DeleteApplication(ctx, applicationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domainerrors.NotFound("application not found")
		}
		return "", fmt.Errorf("delete application: %w", err)
	}

	s.statsCache.Delete(cache.ApplicationStatsKey(userID))

	s.logger.Info("application deleted",
		"application_id", applicationID,
		"user_id", userID,
	)
	return applicationID, nil
}

// GetStats returns the user's application aggregate, served from cache
// when fresh. Users with no records get the zero shape, not an error.
func (s *ApplicationService) GetStats(ctx context.Context, userID string) (*domain.ApplicationStats, error) {
	return s.statsCache.Wrap(cache.ApplicationStatsKey(userID), func() (*domain.ApplicationStats, error) {
		stats, err := s.store.GetApplicationStats(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("get application stats: %w", err)
		}
		return stats, nil
	})
}

// checkApplyDate validates a YYYY-MM-DD apply date and rejects dates after
// today. The comparison is at day granularity: a lexicographic compare of
// two DateFormat strings matches chronological order.
func (s *ApplicationService) checkApplyDate(applyDate string) (string, error) {
	applyDate = strings.TrimSpace(applyDate)
	if applyDate == "" {
		return "", domainerrors.Validation("apply date is required")
	}
	if _, err := time.Parse(clock.DateFormat, applyDate); err != nil {
		return "", domainerrors.Validation("apply date must be a YYYY-MM-DD date")
	}
	if applyDate > clock.Today(s.clk) {
		return "", domainerrors.Validation("apply date cannot be in the future")
	}
	return applyDate, nil
}

// normalizeStatus validates a status string, defaulting to applied when
// empty.
func normalizeStatus(status string) (domain.ApplicationStatus, error) {
	if status == "" {
		return domain.StatusApplied, nil
	}
	s := domain.ApplicationStatus(status)
	if !s.IsValid() {
		return "", domainerrors.Validationf("invalid status %q", status)
	}
	return s, nil
}

// normalizeCompanyName trims and validates a company name.
func normalizeCompanyName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domainerrors.Validation("company name cannot be empty")
	}
	if len(name) > domain.MaxCompanyNameLen {
		return "", domainerrors.Validationf("company name must not exceed %d characters", domain.MaxCompanyNameLen)
	}
	return name, nil
}

// normalizePositionTitle trims an optional position title; empty becomes
// none.
func normalizePositionTitle(title *string) (*string, error) {
	if title == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*title)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > domain.MaxPositionTitleLen {
		return nil, domainerrors.Validationf("position title must not exceed %d characters", domain.MaxPositionTitleLen)
	}
	return &trimmed, nil
}

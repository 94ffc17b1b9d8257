package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/applytrackapp/applytrack-server/internal/domain"
	"github.com/applytrackapp/applytrack-server/internal/store"
)

func seedApplication(t *testing.T, s *Store, id, resumeID, company, date string, status domain.ApplicationStatus) *domain.ApplicationRecord {
	t.Helper()
	now := time.Now()
	a := &domain.ApplicationRecord{
		Entity:      domain.Entity{ID: id, CreatedAt: now, UpdatedAt: now},
		ResumeID:    resumeID,
		CompanyName: company,
		ApplyDate:   date,
		Status:      status,
	}
	if err := s.CreateApplication(context.Background(), a); err != nil {
		t.Fatalf("seed application %s: %v", id, err)
	}
	return a
}

// seedAppTree creates user-1 -> pos-1 -> res-1 so application tests can
// attach records without repeating the chain.
func seedAppTree(t *testing.T, s *Store) {
	t.Helper()
	seedUser(t, s, "user-1", "alice@example.com")
	seedPosition(t, s, "pos-1", "user-1", "Backend Engineer")
	seedResume(t, s, "res-1", "pos-1", "v1")
}

func TestCreateAndGetApplication(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedAppTree(t, s)

	title := "Senior Backend Engineer"
	notes := "referred by a friend"
	now := time.Now()
	app := &domain.ApplicationRecord{
		Entity:        domain.Entity{ID: "app-1", CreatedAt: now, UpdatedAt: now},
		ResumeID:      "res-1",
		CompanyName:   "Acme",
		PositionTitle: &title,
		ApplyDate:     "2026-08-10",
		Status:        domain.StatusApplied,
		Notes:         &notes,
	}
	if err := s.CreateApplication(ctx, app); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}

	got, err := s.GetApplication(ctx, "app-1")
	if err != nil {
		t.Fatalf("GetApplication: %v", err)
	}
	if got.CompanyName != "Acme" {
		t.Errorf("CompanyName: got %q", got.CompanyName)
	}
	if got.PositionTitle == nil || *got.PositionTitle != title {
		t.Errorf("PositionTitle: got %v", got.PositionTitle)
	}
	if got.ApplyDate != "2026-08-10" {
		t.Errorf("ApplyDate: got %q", got.ApplyDate)
	}
	if got.Status != domain.StatusApplied {
		t.Errorf("Status: got %q", got.Status)
	}
	if got.Notes == nil || *got.Notes != notes {
		t.Errorf("Notes: got %v", got.Notes)
	}
}

func TestListApplicationsByResume_Ordering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedAppTree(t, s)

	seedApplication(t, s, "app-1", "res-1", "Acme", "2026-07-01", domain.StatusApplied)
	seedApplication(t, s, "app-2", "res-1", "Globex", "2026-08-15", domain.StatusInterviewInvited)
	seedApplication(t, s, "app-3", "res-1", "Initech", "2026-06-20", domain.StatusRejected)

	got, err := s.ListApplicationsByResume(ctx, "res-1")
	if err != nil {
		t.Fatalf("ListApplicationsByResume: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 applications, got %d", len(got))
	}
	// Most recent apply date first.
	want := []string{"app-2", "app-1", "app-3"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestListApplicationsByUser_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedAppTree(t, s)

	// A second user's records must never appear.
	seedUser(t, s, "user-2", "bob@example.com")
	seedPosition(t, s, "pos-2", "user-2", "Designer")
	seedResume(t, s, "res-2", "pos-2", "other")
	seedApplication(t, s, "app-x", "res-2", "Acme", "2026-08-01", domain.StatusApplied)

	seedApplication(t, s, "app-1", "res-1", "Acme", "2026-07-01", domain.StatusApplied)
	seedApplication(t, s, "app-2", "res-1", "Globex", "2026-08-15", domain.StatusInterviewInvited)
	seedApplication(t, s, "app-3", "res-1", "Initech", "2026-08-20", domain.StatusApplied)

	// No filter: everything the user owns.
	got, err := s.ListApplicationsByUser(ctx, "user-1", store.ApplicationFilter{})
	if err != nil {
		t.Fatalf("ListApplicationsByUser: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 applications, got %d", len(got))
	}

	// Status filter.
	got, err = s.ListApplicationsByUser(ctx, "user-1", store.ApplicationFilter{
		Status: domain.StatusApplied,
	})
	if err != nil {
		t.Fatalf("ListApplicationsByUser status: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 applied, got %d", len(got))
	}

	// Inclusive date range.
	got, err = s.ListApplicationsByUser(ctx, "user-1", store.ApplicationFilter{
		DateFrom: "2026-08-15",
		DateTo:   "2026-08-20",
	})
	if err != nil {
		t.Fatalf("ListApplicationsByUser range: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 in range, got %d", len(got))
	}

	// Combined.
	got, err = s.ListApplicationsByUser(ctx, "user-1", store.ApplicationFilter{
		Status:   domain.StatusApplied,
		DateFrom: "2026-08-01",
	})
	if err != nil {
		t.Fatalf("ListApplicationsByUser combined: %v", err)
	}
	if len(got) != 1 || got[0].ID != "app-3" {
		t.Fatalf("expected only app-3, got %d results", len(got))
	}
}

func TestUpdateApplication(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedAppTree(t, s)

	app := seedApplication(t, s, "app-1", "res-1", "Acme", "2026-08-01", domain.StatusApplied)

	app.Status = domain.StatusOffered
	app.CompanyName = "Acme Corp"
	app.Touch()
	if err := s.UpdateApplication(ctx, app); err != nil {
		t.Fatalf("UpdateApplication: %v", err)
	}

	got, err := s.GetApplication(ctx, "app-1")
	if err != nil {
		t.Fatalf("GetApplication: %v", err)
	}
	if got.Status != domain.StatusOffered {
		t.Errorf("Status: got %q", got.Status)
	}
	if got.CompanyName != "Acme Corp" {
		t.Errorf("CompanyName: got %q", got.CompanyName)
	}
}

func TestDeleteApplication(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedAppTree(t, s)

	seedApplication(t, s, "app-1", "res-1", "Acme", "2026-08-01", domain.StatusApplied)

	if err := s.DeleteApplication(ctx, "app-1"); err != nil {
		t.Fatalf("DeleteApplication: %v", err)
	}
	if _, err := s.GetApplication(ctx, "app-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteApplication(ctx, "app-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestGetApplicationStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedAppTree(t, s)

	// Empty shape for a user with no records.
	stats, err := s.GetApplicationStats(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetApplicationStats: %v", err)
	}
	if stats.Total != 0 {
		t.Errorf("Total: got %d, want 0", stats.Total)
	}
	if stats.FirstApplyDate != nil || stats.LatestApplyDate != nil {
		t.Error("dates should be nil with no records")
	}

	seedApplication(t, s, "app-1", "res-1", "Acme", "2026-07-01", domain.StatusApplied)
	seedApplication(t, s, "app-2", "res-1", "Globex", "2026-08-15", domain.StatusInterviewInvited)
	seedApplication(t, s, "app-3", "res-1", "Initech", "2026-06-20", domain.StatusApplied)
	seedApplication(t, s, "app-4", "res-1", "Umbrella", "2026-08-01", domain.StatusOffered)

	stats, err = s.GetApplicationStats(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetApplicationStats: %v", err)
	}
	if stats.Total != 4 {
		t.Errorf("Total: got %d, want 4", stats.Total)
	}
	if stats.ByStatus.Applied != 2 {
		t.Errorf("Applied: got %d, want 2", stats.ByStatus.Applied)
	}
	if stats.ByStatus.InterviewInvited != 1 {
		t.Errorf("InterviewInvited: got %d, want 1", stats.ByStatus.InterviewInvited)
	}
	if stats.ByStatus.Offered != 1 {
		t.Errorf("Offered: got %d, want 1", stats.ByStatus.Offered)
	}
	if stats.ByStatus.Rejected != 0 {
		t.Errorf("Rejected: got %d, want 0", stats.ByStatus.Rejected)
	}
	if stats.FirstApplyDate == nil || *stats.FirstApplyDate != "2026-06-20" {
		t.Errorf("FirstApplyDate: got %v", stats.FirstApplyDate)
	}
	if stats.LatestApplyDate == nil || *stats.LatestApplyDate != "2026-08-15" {
		t.Errorf("LatestApplyDate: got %v", stats.LatestApplyDate)
	}
}

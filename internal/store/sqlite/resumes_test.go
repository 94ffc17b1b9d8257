package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/applytrackapp/applytrack-server/internal/domain"
	"github.com/applytrackapp/applytrack-server/internal/store"
)

func TestCreateResumeWithMetadata(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-1", "alice@example.com")
	seedPosition(t, s, "pos-1", "user-1", "Backend Engineer")
	seedResume(t, s, "res-1", "pos-1", "v1")

	got, err := s.GetResume(ctx, "res-1")
	if err != nil {
		t.Fatalf("GetResume: %v", err)
	}
	if got.Kind != domain.ResumeKindOnline {
		t.Errorf("Kind: got %q", got.Kind)
	}
	if got.Content == nil || *got.Content != "resume body" {
		t.Errorf("Content: got %v", got.Content)
	}
	if got.FilePath != nil || got.FileName != nil || got.FileSize != nil {
		t.Error("file fields should be nil for an online resume")
	}

	// Metadata row must exist from the same create.
	meta, err := s.GetMetadataByResume(ctx, "res-1")
	if err != nil {
		t.Fatalf("GetMetadataByResume: %v", err)
	}
	if meta.ResumeID != "res-1" {
		t.Errorf("ResumeID: got %q", meta.ResumeID)
	}
	if meta.Notes != nil {
		t.Errorf("Notes: expected nil, got %v", meta.Notes)
	}
	if len(meta.Tags) != 0 {
		t.Errorf("Tags: expected empty, got %v", meta.Tags)
	}
}

func TestCreateResumeWithMetadata_RollsBackOnMetadataFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-1", "alice@example.com")
	seedPosition(t, s, "pos-1", "user-1", "Backend Engineer")
	seedResume(t, s, "res-1", "pos-1", "v1")

	// Second resume reusing the first one's metadata ID: the metadata
	// insert fails, so the resume row must not survive either.
	now := time.Now()
	content := "body"
	r := &domain.ResumeVersion{
		Entity:     domain.Entity{ID: "res-2", CreatedAt: now, UpdatedAt: now},
		PositionID: "pos-1",
		Kind:       domain.ResumeKindOnline,
		Title:      "v2",
		Content:    &content,
	}
	m := &domain.ResumeMetadata{
		Entity:   domain.Entity{ID: "res-1-meta", CreatedAt: now, UpdatedAt: now},
		ResumeID: "res-2",
	}
	err := s.CreateResumeWithMetadata(ctx, r, m)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	_, err = s.GetResume(ctx, "res-2")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("resume row leaked after rollback: %v", err)
	}
}

func TestCreateResumeWithMetadata_FileKind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-1", "alice@example.com")
	seedPosition(t, s, "pos-1", "user-1", "Backend Engineer")

	now := time.Now()
	path := "blobs/res-1.pdf"
	name := "resume.pdf"
	size := int64(4096)
	r := &domain.ResumeVersion{
		Entity:     domain.Entity{ID: "res-1", CreatedAt: now, UpdatedAt: now},
		PositionID: "pos-1",
		Kind:       domain.ResumeKindFile,
		Title:      "uploaded",
		FilePath:   &path,
		FileName:   &name,
		FileSize:   &size,
	}
	m := &domain.ResumeMetadata{
		Entity:   domain.Entity{ID: "meta-1", CreatedAt: now, UpdatedAt: now},
		ResumeID: "res-1",
	}
	if err := s.CreateResumeWithMetadata(ctx, r, m); err != nil {
		t.Fatalf("CreateResumeWithMetadata: %v", err)
	}

	got, err := s.GetResume(ctx, "res-1")
	if err != nil {
		t.Fatalf("GetResume: %v", err)
	}
	if got.Content != nil {
		t.Error("Content should be nil for a file resume")
	}
	if got.FilePath == nil || *got.FilePath != path {
		t.Errorf("FilePath: got %v", got.FilePath)
	}
	if got.FileSize == nil || *got.FileSize != size {
		t.Errorf("FileSize: got %v", got.FileSize)
	}
}

func TestListResumesByPosition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-1", "alice@example.com")
	seedPosition(t, s, "pos-1", "user-1", "Backend Engineer")
	seedPosition(t, s, "pos-2", "user-1", "Platform Engineer")
	seedResume(t, s, "res-1", "pos-1", "v1")
	seedResume(t, s, "res-2", "pos-1", "v2")
	seedResume(t, s, "res-3", "pos-2", "other")

	got, err := s.ListResumesByPosition(ctx, "pos-1")
	if err != nil {
		t.Fatalf("ListResumesByPosition: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 resumes, got %d", len(got))
	}
	for _, r := range got {
		if r.Metadata == nil {
			t.Errorf("resume %s missing metadata", r.ID)
		}
	}
}

func TestUpdateResume(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-1", "alice@example.com")
	seedPosition(t, s, "pos-1", "user-1", "Backend Engineer")
	r := seedResume(t, s, "res-1", "pos-1", "v1")

	newContent := "updated body"
	r.Title = "v1 revised"
	r.Content = &newContent
	r.Touch()
	if err := s.UpdateResume(ctx, r); err != nil {
		t.Fatalf("UpdateResume: %v", err)
	}

	got, err := s.GetResume(ctx, "res-1")
	if err != nil {
		t.Fatalf("GetResume: %v", err)
	}
	if got.Title != "v1 revised" {
		t.Errorf("Title: got %q", got.Title)
	}
	if got.Content == nil || *got.Content != newContent {
		t.Errorf("Content: got %v", got.Content)
	}
}

func TestDeleteResumeCascade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-1", "alice@example.com")
	seedPosition(t, s, "pos-1", "user-1", "Backend Engineer")
	seedResume(t, s, "res-1", "pos-1", "v1")

	now := time.Now()
	app := &domain.ApplicationRecord{
		Entity:      domain.Entity{ID: "app-1", CreatedAt: now, UpdatedAt: now},
		ResumeID:    "res-1",
		CompanyName: "Acme",
		ApplyDate:   "2026-08-01",
		Status:      domain.StatusApplied,
	}
	if err := s.CreateApplication(ctx, app); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}

	if err := s.DeleteResumeCascade(ctx, "res-1"); err != nil {
		t.Fatalf("DeleteResumeCascade: %v", err)
	}

	if _, err := s.GetResume(ctx, "res-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("resume survived cascade: %v", err)
	}
	if _, err := s.GetMetadataByResume(ctx, "res-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("metadata survived cascade: %v", err)
	}
	if _, err := s.GetApplication(ctx, "app-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("application survived cascade: %v", err)
	}
}

func TestDeleteResumeCascade_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.DeleteResumeCascade(context.Background(), "nonexistent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

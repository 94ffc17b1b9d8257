package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/applytrackapp/applytrack-server/internal/auth"
	"github.com/applytrackapp/applytrack-server/internal/blob"
	"github.com/applytrackapp/applytrack-server/internal/cache"
	"github.com/applytrackapp/applytrack-server/internal/clock"
	"github.com/applytrackapp/applytrack-server/internal/domain"
	"github.com/applytrackapp/applytrack-server/internal/ratelimit"
	"github.com/applytrackapp/applytrack-server/internal/store"
	"github.com/applytrackapp/applytrack-server/internal/store/sqlite"
	"github.com/applytrackapp/applytrack-server/internal/validation"
)

// testTokenKey is a fixed 32-byte hex key for PASETO in tests.
const testTokenKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// testNow is the pinned test clock instant. Tests that reason about
// "today" and "tomorrow" derive dates from it.
var testNow = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

// testEnv wires every service against a real temporary SQLite store.
type testEnv struct {
	store        store.Store
	credentials  *CredentialService
	positions    *PositionService
	resumes      *ResumeService
	metadata     *MetadataService
	applications *ApplicationService
	blobs        *blob.Storage
	statsCache   *cache.Cache[*domain.ApplicationStats]
	metaCache    *cache.Cache[*domain.ResumeMetadata]
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	blobs, err := blob.NewStorage(t.TempDir())
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(testTokenKey, time.Hour)
	require.NoError(t, err)

	statsCache := cache.New[*domain.ApplicationStats](64, 5*time.Minute)
	metaCache := cache.New[*domain.ResumeMetadata](64, 10*time.Minute)

	// Generous limiter so only the dedicated rate-limit test trips it.
	limiter := ratelimit.New(1000, 1000)

	metadata := NewMetadataService(st, metaCache, log)

	return &testEnv{
		store:        st,
		credentials:  NewCredentialService(st, tokenService, validation.New(), limiter, log),
		positions:    NewPositionService(st, log),
		resumes:      NewResumeService(st, blobs, statsCache, metaCache, log),
		metadata:     metadata,
		applications: NewApplicationService(st, statsCache, clock.Fixed{T: testNow}, log),
		blobs:        blobs,
		statsCache:   statsCache,
		metaCache:    metaCache,
	}
}

// registerUser creates an account and returns its user ID.
func registerUser(t *testing.T, env *testEnv, email string) string {
	t.Helper()
	user, err := env.credentials.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "hunter2password1",
	})
	require.NoError(t, err)
	return user.ID
}

// createPosition creates a position for the user and returns it.
func createPosition(t *testing.T, env *testEnv, userID, name string) *domain.TargetPosition {
	t.Helper()
	pos, err := env.positions.Create(context.Background(), userID, CreatePositionRequest{Name: name})
	require.NoError(t, err)
	return pos
}

// createOnlineResume creates an online resume under a position.
func createOnlineResume(t *testing.T, env *testEnv, userID, positionID, title string) *domain.ResumeVersion {
	t.Helper()
	content := "resume body"
	resume, err := env.resumes.CreateOnline(context.Background(), userID, positionID, CreateOnlineResumeRequest{
		Title:   title,
		Content: &content,
	})
	require.NoError(t, err)
	return resume
}

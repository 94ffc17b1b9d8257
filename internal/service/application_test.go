package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applytrackapp/applytrack-server/internal/clock"
	"github.com/applytrackapp/applytrack-server/internal/domain"
	domainerrors "github.com/applytrackapp/applytrack-server/internal/errors"
)

func TestApplicationService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := registerUser(t, env, "alice@example.com")
	pos := createPosition(t, env, userID, "Backend Engineer")
	resume := createOnlineResume(t, env, userID, pos.ID, "v1")

	app, err := env.applications.Create(ctx, userID, resume.ID, CreateApplicationRequest{
		CompanyName:   "  Initech  ",
		PositionTitle: strptr("  Senior Backend Engineer  "),
		ApplyDate:     "2026-08-20",
		Status:        "interview_invited",
		Notes:         strptr("referred by Dana"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Initech", app.CompanyName)
	require.NotNil(t, app.PositionTitle)
	assert.Equal(t, "Senior Backend Engineer", *app.PositionTitle)
	assert.Equal(t, "2026-08-20", app.ApplyDate)
	assert.Equal(t, domain.StatusInterviewInvited, app.Status)
}

func TestApplicationService_Create_Defaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := registerUser(t, env, "alice@example.com")
	pos := createPosition(t, env, userID, "Backend Engineer")
	resume := createOnlineResume(t, env, userID, pos.ID, "v1")

	app, err := env.applications.Create(ctx, userID, resume.ID, CreateApplicationRequest{
		CompanyName: "Initech",
		ApplyDate:   "2026-08-20",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApplied, app.Status)
	assert.Nil(t, app.PositionTitle)
	assert.Nil(t, app.Notes)

	// An empty position title normalizes to none.
	app, err = env.applications.Create(ctx, userID, resume.ID, CreateApplicationRequest{
		CompanyName:   "Globex",
		PositionTitle: strptr("   "),
		ApplyDate:     "2026-08-20",
	})
	require.NoError(t, err)
	assert.Nil(t, app.PositionTitle)
}

func TestApplicationService_Create_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := registerUser(t, env, "alice@example.com")
	pos := createPosition(t, env, userID, "Backend Engineer")
	resume := createOnlineResume(t, env, userID, pos.ID, "v1")

	cases := []struct {
		name string
		req  CreateApplicationRequest
	}{
		{"empty company", CreateApplicationRequest{ApplyDate: "2026-08-20"}},
		{"company too long", CreateApplicationRequest{CompanyName: strings.Repeat("x", domain.MaxCompanyNameLen+1), ApplyDate: "2026-08-20"}},
		{"missing apply date", CreateApplicationRequest{CompanyName: "Initech"}},
		{"bad date format", CreateApplicationRequest{CompanyName: "Initech", ApplyDate: "08/20/2026"}},
		{"unknown status", CreateApplicationRequest{CompanyName: "Initech", ApplyDate: "2026-08-20", Status: "ghosted"}},
		{"notes too long", CreateApplicationRequest{CompanyName: "Initech", ApplyDate: "2026-08-20", Notes: strptr(strings.Repeat("x", domain.MaxNotesLen+1))}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.applications.Create(ctx, userID, resume.ID, tc.req)
			require.Error(t, err)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
		})
	}
}

func TestApplicationService_Create_FutureApplyDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := registerUser(t, env, "alice@example.com")
	pos := createPosition(t, env, userID, "Backend Engineer")
	resume := createOnlineResume(t, env, userID, pos.ID, "v1")

	today := testNow.Format(clock.DateFormat)
	tomorrow := testNow.AddDate(0, 0, 1).Format(clock.DateFormat)

	// Today is allowed; the check is at day granularity.
	_, err := env.applications.Create(ctx, userID, resume.ID, CreateApplicationRequest{
		CompanyName: "Initech",
		ApplyDate:   today,
	})
	require.NoError(t, err)

	_, err = env.applications.Create(ctx, userID, resume.ID, CreateApplicationRequest{
		CompanyName: "Initech",
		ApplyDate:   tomorrow,
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestApplicationService_GetByResume(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := registerUser(t, env, "alice@example.com")
	bob := registerUser(t, env, "bob@example.com")
	pos := createPosition(t, env, alice, "Backend Engineer")
	resume := createOnlineResume(t, env, alice, pos.ID, "v1")

	for _, date := range []string{"2026-08-01", "2026-08-15"} {
		_, err := env.applications.Create(ctx, alice, resume.ID, CreateApplicationRequest{
			CompanyName: "Initech",
			ApplyDate:   date,
		})
		require.NoError(t, err)
	}

	apps, err := env.applications.GetByResume(ctx, alice, resume.ID)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "2026-08-15", apps[0].ApplyDate)

	_, err = env.applications.GetByResume(ctx, bob, resume.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))
}

func TestApplicationService_GetByUser_Filters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := registerUser(t, env, "alice@example.com")
	pos := createPosition(t, env, userID, "Backend Engineer")
	resume := createOnlineResume(t, env, userID, pos.ID, "v1")

	seed := []struct {
		company string
		date    string
		status  string
	}{
		{"Initech", "2026-06-20", "rejected"},
		{"Globex", "2026-08-10", "applied"},
		{"Hooli", "2026-08-15", "applied"},
	}
	for _, s := range seed {
		_, err := env.applications.Create(ctx, userID, resume.ID, CreateApplicationRequest{
			CompanyName: s.company,
			ApplyDate:   s.date,
			Status:      s.status,
		})
		require.NoError(t, err)
	}

	apps, err := env.applications.GetByUser(ctx, userID, ListApplicationsRequest{})
	require.NoError(t, err)
	assert.Len(t, apps, 3)

	apps, err = env.applications.GetByUser(ctx, userID, ListApplicationsRequest{Status: "applied"})
	require.NoError(t, err)
	assert.Len(t, apps, 2)

	// Date bounds are inclusive.
	apps, err = env.applications.GetByUser(ctx, userID, ListApplicationsRequest{
		DateFrom: "2026-08-10",
		DateTo:   "2026-08-15",
	})
	require.NoError(t, err)
	assert.Len(t, apps, 2)

	_, err = env.applications.GetByUser(ctx, userID, ListApplicationsRequest{Status: "ghosted"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = env.applications.GetByUser(ctx, userID, ListApplicationsRequest{DateFrom: "soon"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestApplicationService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := registerUser(t, env, "alice@example.com")
	pos := createPosition(t, env, userID, "Backend Engineer")
	resume := createOnlineResume(t, env, userID, pos.ID, "v1")

	app, err := env.applications.Create(ctx, userID, resume.ID, CreateApplicationRequest{
		CompanyName: "Initech",
		ApplyDate:   "2026-08-20",
	})
	require.NoError(t, err)

	got, err := env.applications.Update(ctx, userID, app.ID, UpdateApplicationRequest{
		Status: strptr("offered"),
		Notes:  strptr("verbal offer, waiting on paperwork"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOffered, got.Status)
	assert.Equal(t, "Initech", got.CompanyName)

	t.Run("no fields", func(t *testing.T) {
		_, err := env.applications.Update(ctx, userID, app.ID, UpdateApplicationRequest{})
		require.Error(t, err)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := env.applications.Update(ctx, userID, app.ID, UpdateApplicationRequest{
			Status: strptr("ghosted"),
		})
		require.Error(t, err)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
	})

	t.Run("future date", func(t *testing.T) {
		tomorrow := testNow.AddDate(0, 0, 1).Format(clock.DateFormat)
		_, err := env.applications.Update(ctx, userID, app.ID, UpdateApplicationRequest{
			ApplyDate: &tomorrow,
		})
		require.Error(t, err)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
	})
}

func TestApplicationService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := registerUser(t, env, "alice@example.com")
	bob := registerUser(t, env, "bob@example.com")
	pos := createPosition(t, env, alice, "Backend Engineer")
	resume := createOnlineResume(t, env, alice, pos.ID, "v1")

	app, err := env.applications.Create(ctx, alice, resume.ID, CreateApplicationRequest{
		CompanyName: "Initech",
		ApplyDate:   "2026-08-20",
	})
	require.NoError(t, err)

	_, err = env.applications.Delete(ctx, bob, app.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))

	deletedID, err := env.applications.Delete(ctx, alice, app.ID)
	require.NoError(t, err)
	assert.Equal(t, app.ID, deletedID)

	_, err = env.applications.GetByID(ctx, alice, app.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestApplicationService_GetStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := registerUser(t, env, "alice@example.com")

	// Zero shape for users with no records.
	stats, err := env.applications.GetStats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Nil(t, stats.FirstApplyDate)
	assert.Nil(t, stats.LatestApplyDate)

	pos := createPosition(t, env, userID, "Backend Engineer")
	resume := createOnlineResume(t, env, userID, pos.ID, "v1")

	seed := []struct {
		date   string
		status string
	}{
		{"2026-06-20", "applied"},
		{"2026-07-05", "interview_invited"},
		{"2026-08-15", "applied"},
		{"2026-08-01", "offered"},
	}
	for _, s := range seed {
		_, err := env.applications.Create(ctx, userID, resume.ID, CreateApplicationRequest{
			CompanyName: "Initech",
			ApplyDate:   s.date,
			Status:      s.status,
		})
		require.NoError(t, err)
	}

	stats, err = env.applications.GetStats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.ByStatus.Applied)
	assert.Equal(t, 1, stats.ByStatus.InterviewInvited)
	assert.Equal(t, 1, stats.ByStatus.Offered)
	assert.Equal(t, 0, stats.ByStatus.Rejected)
	require.NotNil(t, stats.FirstApplyDate)
	assert.Equal(t, "2026-06-20", *stats.FirstApplyDate)
	require.NotNil(t, stats.LatestApplyDate)
	assert.Equal(t, "2026-08-15", *stats.LatestApplyDate)
}

func TestApplicationService_GetStats_InvalidatedOnWrites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := registerUser(t, env, "alice@example.com")
	pos := createPosition(t, env, userID, "Backend Engineer")
	resume := createOnlineResume(t, env, userID, pos.ID, "v1")

	app, err := env.applications.Create(ctx, userID, resume.ID, CreateApplicationRequest{
		CompanyName: "Initech",
		ApplyDate:   "2026-08-20",
	})
	require.NoError(t, err)

	// Prime the cache.
	stats, err := env.applications.GetStats(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Total)

	_, err = env.applications.Update(ctx, userID, app.ID, UpdateApplicationRequest{
		Status: strptr("rejected"),
	})
	require.NoError(t, err)

	stats, err = env.applications.GetStats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ByStatus.Rejected)

	_, err = env.applications.Delete(ctx, userID, app.ID)
	require.NoError(t, err)

	stats, err = env.applications.GetStats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
}

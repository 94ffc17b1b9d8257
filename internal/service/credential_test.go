package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/applytrackapp/applytrack-server/internal/errors"
	"github.com/applytrackapp/applytrack-server/internal/ratelimit"
)

func TestCredentialService_Register(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.credentials.Register(ctx, RegisterRequest{
		Email:    "alice@example.com",
		Password: "correcthorse1",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestCredentialService_Register_InvalidEmail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.credentials.Register(context.Background(), RegisterRequest{
		Email:    "not-an-email",
		Password: "correcthorse1",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestCredentialService_Register_WeakPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		password string
	}{
		{"too short", "ab1"},
		{"no digit", "lettersonlyhere"},
		{"no letter", "1234567890"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.credentials.Register(ctx, RegisterRequest{
				Email:    "bob@example.com",
				Password: tc.password,
			})
			require.Error(t, err)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
		})
	}
}

func TestCredentialService_Register_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registerUser(t, env, "alice@example.com")

	_, err := env.credentials.Register(ctx, RegisterRequest{
		Email:    "alice@example.com",
		Password: "differentpass1",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestCredentialService_Login(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := registerUser(t, env, "alice@example.com")

	resp, err := env.credentials.Login(ctx, LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter2password1",
	})
	require.NoError(t, err)
	assert.Equal(t, userID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)
}

func TestCredentialService_Login_Failures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registerUser(t, env, "alice@example.com")

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.credentials.Login(ctx, LoginRequest{
			Email:    "nobody@example.com",
			Password: "hunter2password1",
		})
		require.Error(t, err)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.credentials.Login(ctx, LoginRequest{
			Email:    "alice@example.com",
			Password: "wrongpassword1",
		})
		require.Error(t, err)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := env.credentials.Login(ctx, LoginRequest{Email: "alice@example.com"})
		require.Error(t, err)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
	})
}

func TestCredentialService_Login_RateLimited(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registerUser(t, env, "alice@example.com")

	// Tight limiter: two attempts, then throttled.
	env.credentials.loginLimiter = ratelimit.New(0.01, 2)

	for range 2 {
		_, err := env.credentials.Login(ctx, LoginRequest{
			Email:    "alice@example.com",
			Password: "wrongpassword1",
		})
		require.Error(t, err)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
	}

	_, err := env.credentials.Login(ctx, LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter2password1",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrRateLimited))

	// Other accounts are unaffected.
	registerUser(t, env, "bob@example.com")
	_, err = env.credentials.Login(ctx, LoginRequest{
		Email:    "bob@example.com",
		Password: "hunter2password1",
	})
	require.NoError(t, err)
}

func TestCredentialService_VerifyToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := registerUser(t, env, "alice@example.com")
	resp, err := env.credentials.Login(ctx, LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter2password1",
	})
	require.NoError(t, err)

	user, claims, err := env.credentials.VerifyToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestCredentialService_VerifyToken_Garbage(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.credentials.VerifyToken(context.Background(), "v4.local.garbage")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrTokenInvalid))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode"

	"github.com/applytrackapp/applytrack-server/internal/auth"
	"github.com/applytrackapp/applytrack-server/internal/domain"
	domainerrors "github.com/applytrackapp/applytrack-server/internal/errors"
	"github.com/applytrackapp/applytrack-server/internal/id"
	"github.com/applytrackapp/applytrack-server/internal/ratelimit"
	"github.com/applytrackapp/applytrack-server/internal/store"
	"github.com/applytrackapp/applytrack-server/internal/validation"
)

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 8

// CredentialService handles registration, login, and token issue/verify.
type CredentialService struct {
	store        store.Store
	tokenService *auth.TokenService
	validator    *validation.Validator
	loginLimiter *ratelimit.KeyedRateLimiter
	logger       *slog.Logger
}

// NewCredentialService creates a new credential service.
func NewCredentialService(
	st store.Store,
	tokenService *auth.TokenService,
	validator *validation.Validator,
	loginLimiter *ratelimit.KeyedRateLimiter,
	logger *slog.Logger,
) *CredentialService {
	return &CredentialService{
		store:        st,
		tokenService: tokenService,
		validator:    validator,
		loginLimiter: loginLimiter,
		logger:       logger,
	}
}

// RegisterRequest contains new-account credentials.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse contains the authenticated user and their access token.
type LoginResponse struct {
	User  domain.UserSummary `json:"user"`
	Token string             `json:"token"`
}

// Register creates a new user account. Email shape and password policy
// are checked before uniqueness, so a weak password never reveals whether
// the email is taken.
func (s *CredentialService) Register(ctx context.Context, req RegisterRequest) (*domain.UserSummary, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := checkPasswordPolicy(req.Password); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Entity:       domain.Entity{ID: userID},
		Email:        req.Email,
		PasswordHash: passwordHash,
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domainerrors.Conflict("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered",
		"user_id", userID,
		"email", user.Email,
	)

	summary := user.Summary()
	return &summary, nil
}

// Login authenticates a user and issues an access token.
//
// The not-found and wrong-password failures are distinct at this layer;
// the HTTP boundary collapses them into one generic message so callers
// cannot enumerate accounts.
func (s *CredentialService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, domainerrors.Validation("email and password are required")
	}

	if s.loginLimiter != nil && !s.loginLimiter.Allow(req.Email) {
		return nil, domainerrors.RateLimited("too many login attempts, try again later")
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("user not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid password")
	}

	token, err := s.tokenService.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return &LoginResponse{
		User:  user.Summary(),
		Token: token,
	}, nil
}

// VerifyToken validates an access token and returns the associated user.
// Used by the authentication middleware.
func (s *CredentialService) VerifyToken(ctx context.Context, tokenString string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyToken(tokenString)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.TokenInvalid("token user no longer exists")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	return user, claims, nil
}

// checkPasswordPolicy enforces the minimum password shape: at least
// MinPasswordLen characters with at least one letter and one digit.
func checkPasswordPolicy(password string) error {
	if len(password) < MinPasswordLen {
		return domainerrors.Validationf("password must be at least %d characters", MinPasswordLen)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return domainerrors.Validation("password must contain at least one letter and one digit")
	}
	return nil
}

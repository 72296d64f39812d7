// Package service contains the business logic layer: validation outcomes,
// ownership rules, and orchestration between repositories and auth utilities.
// Handlers parse HTTP and delegate here; nothing in this package knows about
// status codes or JSON.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oncode-dev/oncode/internal/apperror"
	"github.com/oncode-dev/oncode/internal/auth"
	"github.com/oncode-dev/oncode/internal/model"
	"github.com/oncode-dev/oncode/internal/repository"
	"github.com/oncode-dev/oncode/internal/request"
)

// AuthService handles registration, credentials login, and OAuth login.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the authenticated user with the issued session token so
// the handler can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a credentials account.
//
// The email pre-check gives the common duplicate case a clean conflict error;
// the repository's UNIQUE-constraint translation catches the remaining race
// between two concurrent registrations.
func (s *AuthService) Register(ctx context.Context, req request.Register) (*model.User, error) {
	if err := request.Validate(&req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking existing email: %w", err)
	}
	if existing != nil {
		return nil, apperror.Conflict("user with this email already exists")
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	// PasswordHash is json:"-" so it can't serialize anyway, but strip it
	// here too: the returned struct must be safe wherever it travels.
	user.PasswordHash = ""

	return user, nil
}

// Login authenticates with email and password and issues a session token.
//
// Unknown email, an OAuth-only account with no password hash, and a wrong
// password all return the identical unauthorized
// error. Distinguishing them would let a caller enumerate which emails have
// accounts.
func (s *AuthService) Login(ctx context.Context, req request.Login) (*AuthResult, error) {
	if err := request.Validate(&req); err != nil {
		return nil, err
	}

	failed := apperror.Unauthorized("invalid email or password")

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, failed
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if !user.HasPassword() {
		return nil, failed
	}

	if err := s.passwords.Verify(user.PasswordHash, req.Password); err != nil {
		return nil, failed
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	user.PasswordHash = ""

	return &AuthResult{User: user, Token: token}, nil
}

// LoginOAuth upserts the user for a completed OAuth flow (keyed by email) and
// issues a session token. First login creates the account with no password
// hash; returning logins refresh name and avatar.
func (s *AuthService) LoginOAuth(ctx context.Context, profile *auth.Profile) (*AuthResult, error) {
	if profile == nil {
		return nil, fmt.Errorf("service/auth: OAuth profile must not be nil")
	}

	user := &model.User{
		Name:  profile.Name,
		Email: strings.ToLower(profile.Email),
		Image: profile.Image,
	}

	if err := s.users.UpsertUserByEmail(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting OAuth user (%s): %w", profile.Provider, err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user authenticated via OAuth",
		slog.String("userID", user.ID),
		slog.String("provider", profile.Provider),
	)

	user.PasswordHash = ""

	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID returns the user for a validated session's ID. Used by /api/me.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

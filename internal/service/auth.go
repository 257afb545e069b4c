// Package service contains the business logic layer of the application.
//
// The layering follows the usual three-layer shape:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services accept primitives and context, not HTTP types, and return
// apperror values that the handler layer maps onto status codes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/daily-diet-api/internal/apperror"
	"github.com/sakif/daily-diet-api/internal/auth"
	"github.com/sakif/daily-diet-api/internal/model"
	"github.com/sakif/daily-diet-api/internal/repository"
)

// AuthService handles registration, login, and logout.
//
// Login and logout both touch the session_id column through the repository.
// A login is two statements (credential check, then token write) with no
// transaction between them; concurrent logins on one account are
// last-write-wins, and the database is the only synchronization point.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record with the session token minted for it,
// so the handler can set the cookie and respond in one step.
type AuthResult struct {
	User      *model.User
	SessionID string
}

// Register creates a user account and logs it in immediately — the new row
// is created with a fresh session token already on it, so registration
// doubles as the first login.
//
// Passwords are bcrypt-hashed before they reach the repository; the
// plaintext never leaves this method.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	sessionID := auth.NewSessionID()

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		SessionID:    sessionID,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("registering user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return &AuthResult{User: user, SessionID: sessionID}, nil
}

// Login validates credentials and rotates the stored session token.
//
// A miss on the email lookup and a failed password check produce the same
// unauthorized error — the response must not reveal which half was wrong.
// Logging in with a session already active is allowed; the old token is
// simply replaced, so stale cookies on other devices stop working.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	sessionID := auth.NewSessionID()
	if err := s.users.SetSession(ctx, user.ID, sessionID); err != nil {
		return nil, fmt.Errorf("storing session for user %s: %w", user.ID, err)
	}
	user.SessionID = sessionID

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user, SessionID: sessionID}, nil
}

// Logout clears the user's stored session token (set to '', not NULL, so
// the column stays NOT NULL and the empty value can never authenticate).
func (s *AuthService) Logout(ctx context.Context, user *model.User) error {
	if err := s.users.SetSession(ctx, user.ID, ""); err != nil {
		return fmt.Errorf("clearing session for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged out", slog.String("userID", user.ID))
	return nil
}

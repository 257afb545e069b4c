// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage provides the concrete implementation;
// tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/daily-diet-api/internal/model"
)

// UserRepository persists user accounts and their session tokens.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// GetBySession resolves a session token to the user holding it.
	// An empty token never matches (logged-out rows store '').
	GetBySession(ctx context.Context, sessionID string) (*model.User, error)
	// SetSession stores the given session token on the user row.
	// Pass "" to clear the session (logout).
	SetSession(ctx context.Context, userID, sessionID string) error
}

// MealRepository persists meals. Every read and write is scoped by the
// owning user's ID — ownership is the only access-control boundary in the
// system, so no method may touch a meal without it.
type MealRepository interface {
	Create(ctx context.Context, meal *model.Meal) error
	GetByID(ctx context.Context, userID, id string) (*model.Meal, error)
	// ListByUser returns the user's meals ordered by date ascending.
	ListByUser(ctx context.Context, userID string) ([]model.Meal, error)
	Update(ctx context.Context, meal *model.Meal) error
	// Delete removes the meal matching id+owner. It reports no error when
	// nothing matched — deletion is idempotent.
	Delete(ctx context.Context, userID, id string) error
	// Count returns how many meals the user has. A non-nil onDiet narrows
	// the count to meals with that diet flag.
	Count(ctx context.Context, userID string, onDiet *bool) (int64, error)
}

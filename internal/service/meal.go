package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/daily-diet-api/internal/apperror"
	"github.com/sakif/daily-diet-api/internal/model"
	"github.com/sakif/daily-diet-api/internal/repository"
)

// Validation constants.
const (
	MaxMealNameLength        = 100
	MaxMealDescriptionLength = 1000

	// DateLayout is the canonical stored form. Its lexicographic order is
	// chronological, which ListByUser's ORDER BY and the streak scan use.
	DateLayout = "2006-01-02 15:04:05"

	// DateOnlyLayout is also accepted on input and normalized to midnight.
	DateOnlyLayout = "2006-01-02"
)

// MealService handles business logic for meals: validation, the uniform
// date policy, patch semantics, and the aggregate queries.
//
// Every method takes the owning user's ID and passes it down — the
// repository never sees a meal operation without an owner scope.
type MealService struct {
	meals  repository.MealRepository
	logger *slog.Logger
}

// NewMealService creates a new MealService.
func NewMealService(meals repository.MealRepository, logger *slog.Logger) *MealService {
	return &MealService{
		meals:  meals,
		logger: logger,
	}
}

// MealPatch is the explicit optional-field representation for updates.
// A nil field means "leave untouched"; a non-nil field means "set to this
// value". Handlers decode PATCH bodies straight into it, so absent JSON
// keys stay nil and can never null out a stored field.
type MealPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	OnDiet      *bool   `json:"onDiet"`
	Date        *string `json:"date"`
}

// normalizeDate applies the one date policy used everywhere: accept the
// canonical "2006-01-02 15:04:05" form or a bare "2006-01-02" (normalized
// to midnight), reject anything else.
func normalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t.Format(DateLayout), nil
	}
	if t, err := time.Parse(DateOnlyLayout, raw); err == nil {
		return t.Format(DateLayout), nil
	}

	return "", apperror.ValidationFailed("date",
		fmt.Sprintf("date must be %q or %q", DateLayout, DateOnlyLayout))
}

// Create validates and saves a new meal for the given user.
func (s *MealService) Create(ctx context.Context, userID, name, description string, onDiet bool, date string) (*model.Meal, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "meal name is required")
	}
	if len(name) > MaxMealNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("meal name must be %d characters or less", MaxMealNameLength))
	}
	if len(description) > MaxMealDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxMealDescriptionLength))
	}
	if strings.TrimSpace(date) == "" {
		return nil, apperror.ValidationFailed("date", "date is required")
	}

	normalized, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}

	meal := &model.Meal{
		Name:        name,
		Description: strings.TrimSpace(description),
		OnDiet:      onDiet,
		Date:        normalized,
		UserID:      userID,
	}

	if err := s.meals.Create(ctx, meal); err != nil {
		s.logger.Error("failed to create meal",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating meal: %w", err)
	}

	s.logger.Info("meal created",
		slog.String("id", meal.ID),
		slog.String("userID", userID),
		slog.Bool("onDiet", meal.OnDiet),
	)

	return meal, nil
}

// List returns all of the user's meals ordered by date ascending.
// No meals is a normal outcome: the caller gets an empty slice, not an
// error.
func (s *MealService) List(ctx context.Context, userID string) ([]model.Meal, error) {
	meals, err := s.meals.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list meals",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing meals: %w", err)
	}
	return meals, nil
}

// GetByID retrieves a single meal owned by the user.
// Returns apperror.ErrNotFound when no owned meal matches.
func (s *MealService) GetByID(ctx context.Context, userID, id string) (*model.Meal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "meal ID is required")
	}

	return s.meals.GetByID(ctx, userID, id)
}

// Update applies a partial patch to an owned meal.
//
// Strategy: fetch then update. The existing meal is loaded (which also
// enforces ownership and existence), only the patch's non-nil fields are
// applied on top, and the full row is written back. Omitted fields are
// untouched by construction.
func (s *MealService) Update(ctx context.Context, userID, id string, patch MealPatch) (*model.Meal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "meal ID is required")
	}

	meal, err := s.meals.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "meal name cannot be empty")
		}
		if len(name) > MaxMealNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("meal name must be %d characters or less", MaxMealNameLength))
		}
		meal.Name = name
	}
	if patch.Description != nil {
		if len(*patch.Description) > MaxMealDescriptionLength {
			return nil, apperror.ValidationFailed("description",
				fmt.Sprintf("description must be %d characters or less", MaxMealDescriptionLength))
		}
		meal.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.OnDiet != nil {
		meal.OnDiet = *patch.OnDiet
	}
	if patch.Date != nil {
		normalized, err := normalizeDate(*patch.Date)
		if err != nil {
			return nil, err
		}
		meal.Date = normalized
	}

	if err := s.meals.Update(ctx, meal); err != nil {
		s.logger.Error("failed to update meal",
			slog.String("id", id),
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating meal: %w", err)
	}

	s.logger.Info("meal updated",
		slog.String("id", meal.ID),
		slog.String("userID", userID),
	)

	return meal, nil
}

// Delete removes an owned meal. Deleting an ID that doesn't exist succeeds —
// the operation is idempotent and performs no existence check.
func (s *MealService) Delete(ctx context.Context, userID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "meal ID is required")
	}

	if err := s.meals.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("meal deleted",
		slog.String("id", id),
		slog.String("userID", userID),
	)
	return nil
}

// CountAll returns the total number of meals the user has logged.
func (s *MealService) CountAll(ctx context.Context, userID string) (int64, error) {
	return s.meals.Count(ctx, userID, nil)
}

// CountOnDiet returns the number of on-diet meals.
func (s *MealService) CountOnDiet(ctx context.Context, userID string) (int64, error) {
	onDiet := true
	return s.meals.Count(ctx, userID, &onDiet)
}

// CountOffDiet returns the number of off-diet meals.
func (s *MealService) CountOffDiet(ctx context.Context, userID string) (int64, error) {
	onDiet := false
	return s.meals.Count(ctx, userID, &onDiet)
}

// Streak returns the longest contiguous run of on-diet meals, with the
// meals ordered by date ascending.
//
// One linear scan: a running counter increments on each on-diet meal and
// resets to zero on each off-diet meal; the answer is the maximum the
// counter ever reaches. A user with no meals has a streak of zero.
func (s *MealService) Streak(ctx context.Context, userID string) (int, error) {
	meals, err := s.meals.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("computing streak: %w", err)
	}

	var streak, run int
	for _, m := range meals {
		if m.OnDiet {
			run++
			if run > streak {
				streak = run
			}
		} else {
			run = 0
		}
	}

	return streak, nil
}

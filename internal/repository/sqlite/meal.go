package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/daily-diet-api/internal/apperror"
	"github.com/sakif/daily-diet-api/internal/model"
	"github.com/sakif/daily-diet-api/internal/repository"
)

// compile-time check that *DB implements repository.MealRepository
var _ repository.MealRepository = (*DB)(nil)

// Create inserts a new meal. ID and timestamps are generated here and
// written back onto the caller's struct.
func (db *DB) Create(ctx context.Context, meal *model.Meal) error {
	meal.ID = xid.New().String()

	now := time.Now()
	meal.CreatedAt = now
	meal.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO meals (id, name, description, on_diet, date, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		meal.ID,
		meal.Name,
		meal.Description,
		meal.OnDiet,
		meal.Date,
		meal.UserID,
		meal.CreatedAt,
		meal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating meal: %w", err)
	}

	return nil
}

// GetByID retrieves a single meal matching both id and owner. A meal owned
// by someone else is indistinguishable from one that doesn't exist.
func (db *DB) GetByID(ctx context.Context, userID, id string) (*model.Meal, error) {
	var m model.Meal

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, description, on_diet, date, user_id, created_at, updated_at
		 FROM meals
		 WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(
		&m.ID,
		&m.Name,
		&m.Description,
		&m.OnDiet,
		&m.Date,
		&m.UserID,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("meal", id)
		}
		return nil, fmt.Errorf("sqlite: getting meal %s: %w", id, err)
	}

	return &m, nil
}

// ListByUser returns all of the user's meals ordered by date ascending
// (created_at breaks ties between meals logged for the same moment).
// The streak scan in the service layer relies on this ordering.
func (db *DB) ListByUser(ctx context.Context, userID string) ([]model.Meal, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, description, on_diet, date, user_id, created_at, updated_at
		 FROM meals
		 WHERE user_id = ?
		 ORDER BY date ASC, created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing meals: %w", err)
	}
	defer rows.Close()

	meals := make([]model.Meal, 0, 16)

	for rows.Next() {
		var m model.Meal
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Description, &m.OnDiet, &m.Date,
			&m.UserID, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning meal row: %w", err)
		}
		meals = append(meals, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating meals: %w", err)
	}

	return meals, nil
}

// Update writes the full meal row back, scoped by id+owner.
// Field-level patch semantics live in the service layer (fetch, apply,
// update); the repository always receives a complete meal.
func (db *DB) Update(ctx context.Context, meal *model.Meal) error {
	meal.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE meals
		 SET name = ?, description = ?, on_diet = ?, date = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		meal.Name,
		meal.Description,
		meal.OnDiet,
		meal.Date,
		meal.UpdatedAt,
		meal.ID,
		meal.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating meal %s: %w", meal.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("meal", meal.ID)
	}

	return nil
}

// Delete removes the meal matching id+owner. Deleting a meal that doesn't
// exist (or belongs to someone else) is not an error — DELETE is idempotent,
// so there is deliberately no rows-affected check here.
func (db *DB) Delete(ctx context.Context, userID, id string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM meals WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting meal %s: %w", id, err)
	}

	return nil
}

// Count returns the number of meals the user has logged. A non-nil onDiet
// narrows the count to meals with that diet flag.
func (db *DB) Count(ctx context.Context, userID string, onDiet *bool) (int64, error) {
	query := `SELECT COUNT(*) FROM meals WHERE user_id = ?`
	args := []any{userID}

	if onDiet != nil {
		query += ` AND on_diet = ?`
		args = append(args, *onDiet)
	}

	var count int64
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite: counting meals: %w", err)
	}

	return count, nil
}

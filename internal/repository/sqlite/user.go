package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/daily-diet-api/internal/apperror"
	"github.com/sakif/daily-diet-api/internal/model"
	"github.com/sakif/daily-diet-api/internal/repository"
)

// UserDB provides the user repository methods on top of a DB. The meal
// methods live directly on *DB; user methods get their own receiver so the
// two repositories' Create/GetByID signatures don't collide.
type UserDB struct {
	db *DB
}

// Users returns the user repository view of the database.
func (db *DB) Users() *UserDB {
	return &UserDB{db: db}
}

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

// Create inserts a new user. The ID and timestamps are generated here and
// written back onto the caller's struct (pointer receiver pattern).
//
// A duplicate email violates the UNIQUE constraint; we translate that into
// apperror.Conflict so the handler can answer 409 instead of 500.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := u.db.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, session_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.SessionID,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", "email "+user.Email)
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (u *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	return u.getUserWhere(ctx, "id = ?", id)
}

// GetByEmail retrieves a user by their (unique) email address.
func (u *UserDB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.getUserWhere(ctx, "email = ?", email)
}

// GetBySession resolves a session token to the user currently holding it.
// The empty token is rejected outright — logged-out rows store '' in
// session_id, and '' must never authenticate anyone.
func (u *UserDB) GetBySession(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, apperror.NotFound("session", sessionID)
	}
	return u.getUserWhere(ctx, "session_id = ?", sessionID)
}

// SetSession stores the session token on the user row ('' clears it).
func (u *UserDB) SetSession(ctx context.Context, userID, sessionID string) error {
	result, err := u.db.conn.ExecContext(ctx,
		`UPDATE users SET session_id = ?, updated_at = ? WHERE id = ?`,
		sessionID, time.Now(), userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting session for user %s: %w", userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", userID)
	}

	return nil
}

// getUserWhere runs a single-row user lookup with the given WHERE clause.
// The three Get* methods only differ in the column they filter on.
func (u *UserDB) getUserWhere(ctx context.Context, where string, arg any) (*model.User, error) {
	var usr model.User

	err := u.db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, session_id, created_at, updated_at
		 FROM users WHERE `+where,
		arg,
	).Scan(
		&usr.ID,
		&usr.Name,
		&usr.Email,
		&usr.PasswordHash,
		&usr.SessionID,
		&usr.CreatedAt,
		&usr.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprintf("%v", arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	return &usr, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. modernc.org/sqlite doesn't export a typed error for this, so we
// match on the stable message prefix the engine emits.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

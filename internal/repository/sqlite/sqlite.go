// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// We use modernc.org/sqlite rather than mattn/go-sqlite3: it's a pure Go
// translation of SQLite, so no CGo and no C compiler needed — the binary
// builds and cross-compiles anywhere Go does.
//
// The database is a single file (or ":memory:" in tests). WAL mode lets
// concurrent reads proceed while a write is in flight, which matters for a
// web server where every request hits the DB.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
// It implements repository.MealRepository directly; the Users() accessor
// returns the repository.UserRepository view.
type DB struct {
	conn *sql.DB
}

// New opens the SQLite database at dbPath and runs migrations.
// Use ":memory:" for an in-memory database (tests).
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open doesn't actually connect — Ping forces it so a bad path
	// surfaces here instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The meals.user_id
	// reference only holds if we turn them on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this safe to
// run on every startup.
func (db *DB) migrate() error {
	// session_id is NOT NULL DEFAULT '' — an empty string means "logged
	// out". The partial unique index below guarantees a live token maps to
	// at most one user without tripping over the many '' rows.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			session_id    TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_session_id
			ON users(session_id) WHERE session_id != '';
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// date is a normalized "YYYY-MM-DD HH:MM:SS" string, so ORDER BY date
	// is chronological.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS meals (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			on_diet     INTEGER NOT NULL DEFAULT 0,
			date        TEXT NOT NULL,
			user_id     TEXT NOT NULL REFERENCES users(id),
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_meals_user_id ON meals(user_id);
		CREATE INDEX IF NOT EXISTS idx_meals_user_date ON meals(user_id, date);
	`)
	if err != nil {
		return fmt.Errorf("creating meals table: %w", err)
	}

	return nil
}

// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Authentication is email + password, verified against the bcrypt hash in
// PasswordHash. The `json:"-"` tag makes sure the hash never leaks into an
// API response, no matter which handler serializes the user.
//
// SessionID holds the currently active session token (empty string when the
// user is logged out). The token is also set as a cookie on the client; a
// request is authenticated when its cookie matches this column.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	SessionID    string    `json:"-"         db:"session_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Package auth implements opaque session tokens and the cookie that
// carries them.
//
// SESSION MODEL:
// A session token is a random UUID minted on registration or login. It
// lives in two places: the "session_id" HttpOnly cookie on the client, and
// the session_id column on the user row. A request is authenticated when
// the cookie value matches a stored token. Logout clears the column and
// the cookie, which revokes the token server-side.
package auth

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// SessionCookie is the cookie name, matching the session_id column.
	SessionCookie = "session_id"

	// SessionTTL is the cookie lifetime. The stored token itself doesn't
	// expire server-side; once the cookie lapses the client simply can't
	// present it anymore.
	SessionTTL = time.Hour
)

// NewSessionID mints a fresh opaque session token.
func NewSessionID() string {
	return uuid.NewString()
}

// SetSessionCookie writes the session cookie on the response.
// HttpOnly keeps it away from JavaScript; SameSite=Lax blocks cross-site
// POSTs from carrying it.
func SetSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie tells the browser to drop the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionFromRequest reads the session token from the request cookie.
// Returns ("", false) when the cookie is absent or empty.
func SessionFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

package auth

import (
	"context"
	"net/http"

	"github.com/sakif/daily-diet-api/internal/model"
	"github.com/sakif/daily-diet-api/internal/repository"
)

// contextKey is an unexported type used for context keys in this package.
// A package-private key type means only this package can read or write the
// principal in the context — no other package can collide with it.
type contextKey string

const userKey contextKey = "user"

// RequireSession is the authentication gate for every meal route.
//
// It reads the session cookie, resolves it to a user in one place, and
// stores the full user record in the request context. Any failure — missing
// cookie, empty value, token matching no row — stops the chain with 401.
// There is exactly one resolution per request and it is never silently
// dropped: downstream handlers can assume UserFromContext succeeds.
func RequireSession(users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, ok := SessionFromRequest(r)
			if !ok {
				http.Error(w, `{"error":"unauthorized","message":"a valid session is required"}`, http.StatusUnauthorized)
				return
			}

			user, err := users.GetBySession(r.Context(), sessionID)
			if err != nil {
				http.Error(w, `{"error":"unauthorized","message":"a valid session is required"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated user stored by RequireSession.
// Returns (nil, false) if the request never passed through the middleware.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

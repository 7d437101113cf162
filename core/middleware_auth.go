package core

import (
	"context"
	"net/http"

	"github.com/caasmo/notefold/db"
)

// contextKey is a private type for request context keys.
type contextKey string

const userContextKey contextKey = "auth_user"

// UserFromContext returns the authenticated user stored by RequireAuth, or
// nil when the request was not authenticated.
func UserFromContext(ctx context.Context) *db.User {
	user, _ := ctx.Value(userContextKey).(*db.User)
	return user
}

// RequireAuth authenticates the request's bearer token and stores the
// resolved user in the request context for downstream handlers.
func (a *App) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err, resp := a.Auth().Authenticate(r)
		if err != nil {
			writeJsonError(w, resp)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package core

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/caasmo/notefold/db"
	"github.com/caasmo/notefold/db/mock"
)

func TestRequireAuth(t *testing.T) {
	user := &db.User{ID: "user1", Email: "user@example.com", Verified: true}
	mockDb := &mock.Db{
		GetUserByIdFunc: func(id string) (*db.User, error) {
			return user, nil
		},
	}
	app, _, _ := newTestApp(t, mockDb)

	var seen *db.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := app.RequireAuth(next)

	t.Run("rejects missing token", func(t *testing.T) {
		seen = nil
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, httptest.NewRequest("GET", "/api/notes", nil))

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rr.Code)
		}
		if seen != nil {
			t.Error("handler must not run without authentication")
		}
	})

	t.Run("passes user through context", func(t *testing.T) {
		seen = nil
		token := sessionTokenFor(t, user, time.Hour)
		req := httptest.NewRequest("GET", "/api/notes", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		if seen == nil || seen.ID != user.ID {
			t.Errorf("expected user in context, got %+v", seen)
		}
	})
}

package core

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/caasmo/notefold/cache"
	"github.com/caasmo/notefold/config"
	"github.com/caasmo/notefold/crypto"
	"github.com/caasmo/notefold/db"
	"github.com/caasmo/notefold/db/mock"
)

const authTestSecret = "0123456789abcdef0123456789abcdef"

func newTestAuthenticator(mockDb *mock.Db, c cache.Cache[string, interface{}]) *DefaultAuthenticator {
	cfg := config.NewDefaultConfig()
	cfg.Jwt.AuthSecret = authTestSecret
	return NewDefaultAuthenticator(mockDb, c, config.NewProvider(cfg), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func sessionTokenFor(t *testing.T, user *db.User, duration time.Duration) string {
	t.Helper()
	token, _, err := crypto.NewJwtSessionToken(user.ID, user.Email, []byte(authTestSecret), duration)
	if err != nil {
		t.Fatalf("failed to mint test token: %v", err)
	}
	return token
}

func TestAuthenticate(t *testing.T) {
	user := &db.User{ID: "user1", Email: "user@example.com", Name: "User", Verified: true}
	mockDb := &mock.Db{
		GetUserByIdFunc: func(id string) (*db.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, nil
		},
	}

	testCases := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{
			name:       "missing header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			header:     "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			header:     "Bearer not.a.jwt",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "valid token",
			header:     "Bearer " + sessionTokenFor(t, user, time.Hour),
			wantStatus: 0,
		},
		{
			name:       "expired token",
			header:     "Bearer " + sessionTokenFor(t, user, -time.Hour),
			wantStatus: http.StatusForbidden,
		},
	}

	auth := newTestAuthenticator(mockDb, nil)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/auth/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			gotUser, err, resp := auth.Authenticate(req)
			if tc.wantStatus == 0 {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				if gotUser == nil || gotUser.ID != user.ID {
					t.Errorf("expected user %q, got %+v", user.ID, gotUser)
				}
				return
			}
			if err == nil {
				t.Fatal("expected authentication failure")
			}
			if resp.status != tc.wantStatus {
				t.Errorf("expected status %d, got %d", tc.wantStatus, resp.status)
			}
		})
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	// Token verifies structurally but the claimed user does not exist.
	ghost := &db.User{ID: "ghost", Email: "ghost@example.com"}
	auth := newTestAuthenticator(&mock.Db{}, nil)

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+sessionTokenFor(t, ghost, time.Hour))

	_, err, resp := auth.Authenticate(req)
	if err == nil {
		t.Fatal("expected failure for unknown user")
	}
	if resp.status != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", resp.status)
	}
}

func TestAuthenticateEmailChangeInvalidatesToken(t *testing.T) {
	// The signing key derives from the email; a token minted before an
	// email change no longer verifies.
	old := &db.User{ID: "user1", Email: "old@example.com"}
	token := sessionTokenFor(t, old, time.Hour)

	mockDb := &mock.Db{
		GetUserByIdFunc: func(id string) (*db.User, error) {
			return &db.User{ID: "user1", Email: "new@example.com"}, nil
		},
	}
	auth := newTestAuthenticator(mockDb, nil)

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	_, err, resp := auth.Authenticate(req)
	if err == nil {
		t.Fatal("expected stale token to fail")
	}
	if resp.status != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", resp.status)
	}
}

// countingCache records Get/Set traffic on top of a map.
type countingCache struct {
	store map[string]interface{}
	gets  int
	sets  int
}

func (c *countingCache) Get(key string) (interface{}, bool) {
	c.gets++
	v, ok := c.store[key]
	return v, ok
}

func (c *countingCache) Set(key string, value interface{}, cost int64) bool {
	c.sets++
	c.store[key] = value
	return true
}

func (c *countingCache) SetWithTTL(key string, value interface{}, cost int64, ttl time.Duration) bool {
	return c.Set(key, value, cost)
}

func TestAuthenticateUsesCache(t *testing.T) {
	user := &db.User{ID: "user1", Email: "user@example.com"}
	dbHits := 0
	mockDb := &mock.Db{
		GetUserByIdFunc: func(id string) (*db.User, error) {
			dbHits++
			return user, nil
		},
	}
	cc := &countingCache{store: map[string]interface{}{}}
	auth := newTestAuthenticator(mockDb, cc)

	token := sessionTokenFor(t, user, time.Hour)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		if _, err, _ := auth.Authenticate(req); err != nil {
			t.Fatalf("authenticate %d failed: %v", i, err)
		}
	}

	if dbHits != 1 {
		t.Errorf("expected a single database read, got %d", dbHits)
	}
	if cc.sets != 1 {
		t.Errorf("expected the record cached once, got %d sets", cc.sets)
	}
}

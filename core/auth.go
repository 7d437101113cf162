package core

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/caasmo/notefold/cache"
	"github.com/caasmo/notefold/config"
	"github.com/caasmo/notefold/crypto"
	"github.com/caasmo/notefold/db"
)

// userCacheTTL bounds how stale an authenticated user record may be. A
// fresh database read happens at most once per user per interval; token
// signature verification still runs on every request.
const userCacheTTL = 5 * time.Minute

// Authenticator validates a request's bearer token and resolves the user it
// belongs to. On failure the jsonResponse is precomputed and ready to write.
type Authenticator interface {
	Authenticate(r *http.Request) (*db.User, error, jsonResponse)
}

// DefaultAuthenticator verifies session tokens signed with the per-user
// derived key. The user record is looked up through the cache when one is
// configured, since every authenticated request needs it.
type DefaultAuthenticator struct {
	dbAuth         db.DbAuth
	cache          cache.Cache[string, interface{}]
	configProvider *config.Provider
	logger         *slog.Logger
}

// NewDefaultAuthenticator creates a new DefaultAuthenticator. A nil cache
// disables user record caching.
func NewDefaultAuthenticator(dbAuth db.DbAuth, c cache.Cache[string, interface{}], provider *config.Provider, logger *slog.Logger) *DefaultAuthenticator {
	return &DefaultAuthenticator{
		dbAuth:         dbAuth,
		cache:          c,
		configProvider: provider,
		logger:         logger,
	}
}

func userCacheKey(userID string) string {
	return "auth_user:" + userID
}

// lookupUser resolves a user by id, through the cache when available.
// Returns (nil, nil) when no user exists.
func (d *DefaultAuthenticator) lookupUser(userID string) (*db.User, error) {
	if d.cache != nil {
		if v, ok := d.cache.Get(userCacheKey(userID)); ok {
			if user, ok := v.(*db.User); ok {
				return user, nil
			}
		}
	}

	user, err := d.dbAuth.GetUserById(userID)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	if user != nil && d.cache != nil {
		d.cache.SetWithTTL(userCacheKey(userID), user, 1, userCacheTTL)
	}
	return user, nil
}

// Authenticate implements the Authenticator interface. The token is parsed
// unverified first to learn which user it claims, then verified against
// that user's derived signing key. A token minted for an email the user no
// longer has fails the signature check.
func (d *DefaultAuthenticator) Authenticate(r *http.Request) (*db.User, error, jsonResponse) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("missing authorization header"), errorNoAuthHeader
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, errors.New("invalid authorization format"), errorInvalidTokenFormat
	}

	claims, err := crypto.ParseJwtUnverified(tokenString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err), errorInvalidOrExpiredToken
	}

	if err := crypto.ValidateSessionClaims(claims); err != nil {
		return nil, fmt.Errorf("invalid session claims: %w", err), errorInvalidOrExpiredToken
	}

	userID := claims[crypto.ClaimUserID].(string)
	user, err := d.lookupUser(userID)
	if err != nil {
		d.logger.Error("auth: user lookup failed", "user_id", userID, "error", err)
		return nil, err, errorServiceUnavailable
	}
	if user == nil {
		return nil, errors.New("user not found"), errorInvalidOrExpiredToken
	}

	cfg := d.configProvider.Get()
	signingKey, err := crypto.NewJwtSigningKeyWithEmail(user.Email, []byte(cfg.Jwt.AuthSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err), errorTokenGeneration
	}

	if _, err := crypto.ParseJwt(tokenString, signingKey); err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err), errorInvalidOrExpiredToken
	}

	return user, nil, jsonResponse{}
}

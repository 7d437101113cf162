package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// MinKeyLength is the minimum required length for JWT signing keys.
	// 32 bytes (256 bits) is the minimum recommended length for HMAC-SHA256 keys
	// to provide sufficient security against brute force attacks.
	MinKeyLength = 32

	// JWT claim constants
	ClaimIssuedAt  = "iat"     // JWT Issued At claim key
	ClaimExpiresAt = "exp"     // JWT Expiration Time claim key
	ClaimUserID    = "user_id" // JWT User ID claim key
	ClaimEmail     = "email"   // JWT Email claim key
)

var (
	// ErrJwtTokenExpired is returned when the token has expired
	ErrJwtTokenExpired = errors.New("token expired")
	// ErrJwtInvalidToken is returned when the token is invalid
	ErrJwtInvalidToken = errors.New("invalid token")
	// ErrJwtInvalidSigningMethod is returned when the signing method is not HS256
	ErrJwtInvalidSigningMethod = errors.New("unexpected signing method")
	// ErrJwtInvalidSecretLength is returned for invalid secret lengths
	ErrJwtInvalidSecretLength = errors.New("invalid secret length")
	// ErrInvalidClaimFormat is returned when required claims are missing or malformed
	ErrInvalidClaimFormat = errors.New("invalid claim format")
)

// ParseJwt verifies and parses a JWT and returns its claims.
// The returned jwt.MapClaims is an ordinary map:
//
//	exp := claims["exp"].(float64)
func ParseJwt(token string, verificationKey []byte) (jwt.MapClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))

	parsedToken, err := parser.Parse(token, func(t *jwt.Token) (any, error) {
		return verificationKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrJwtTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrJwtInvalidSigningMethod
		}
		return nil, fmt.Errorf("%w: %w", ErrJwtInvalidToken, err)
	}

	if claims, ok := parsedToken.Claims.(jwt.MapClaims); ok && parsedToken.Valid {
		return claims, nil
	}

	return nil, ErrJwtInvalidToken
}

// ParseJwtUnverified parses a JWT without verifying its signature. The
// claims are untrusted; the caller must verify the token with ParseJwt
// before acting on them. Used to extract the user id so the per-user
// signing key can be derived.
func ParseJwtUnverified(token string) (jwt.MapClaims, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJwtInvalidToken, err)
	}
	return claims, nil
}

// NewJwt generates a new JWT token with the provided claims.
// payload is jwt.MapClaims which is just map[string]any:
//
//	payload := jwt.MapClaims{"user_id": userID}
func NewJwt(payload jwt.MapClaims, signingKey []byte, duration time.Duration) (string, time.Time, error) {
	if len(signingKey) < MinKeyLength {
		return "", time.Time{}, ErrJwtInvalidSecretLength
	}

	// Set standard claims
	now := time.Now()
	expirationTime := now.Add(duration)
	payload[ClaimIssuedAt] = now.Unix()
	payload[ClaimExpiresAt] = expirationTime.Unix()

	// Create and sign the token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	tokenString, err := token.SignedString(signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expirationTime, nil
}

// NewJwtSigningKeyWithEmail derives a per-user JWT signing key using
// HMAC-SHA256 over the user's email with the server secret as HMAC key.
// Tokens are invalidated when the user's email changes, or globally by
// rotating the secret. Using HMAC prevents length-extension attacks,
// unlike simple hash concatenation.
func NewJwtSigningKeyWithEmail(email string, secret []byte) ([]byte, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: empty email", ErrInvalidClaimFormat)
	}
	if len(secret) < MinKeyLength {
		return nil, ErrJwtInvalidSecretLength
	}

	h := hmac.New(sha256.New, secret)
	h.Write([]byte(email))
	return h.Sum(nil), nil
}

// NewJwtSessionToken issues a session token embedding the user id and email,
// signed with the per-user derived key.
func NewJwtSessionToken(userID, email string, secret []byte, duration time.Duration) (string, time.Time, error) {
	signingKey, err := NewJwtSigningKeyWithEmail(email, secret)
	if err != nil {
		return "", time.Time{}, err
	}

	claims := jwt.MapClaims{
		ClaimUserID: userID,
		ClaimEmail:  email,
	}
	return NewJwt(claims, signingKey, duration)
}

// ValidateSessionClaims checks the presence and shape of the custom session
// claims. The parser validates signature and expiry IF the claims are
// present; presence of our required claims is our responsibility.
func ValidateSessionClaims(claims jwt.MapClaims) error {
	if _, ok := claims[ClaimIssuedAt].(float64); !ok {
		return fmt.Errorf("%w: missing iat claim", ErrInvalidClaimFormat)
	}
	userID, ok := claims[ClaimUserID].(string)
	if !ok || userID == "" {
		return fmt.Errorf("%w: missing user_id claim", ErrInvalidClaimFormat)
	}
	email, ok := claims[ClaimEmail].(string)
	if !ok || email == "" {
		return fmt.Errorf("%w: missing email claim", ErrInvalidClaimFormat)
	}
	return nil
}

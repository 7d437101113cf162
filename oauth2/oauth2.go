package oauth2

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	xoauth2 "golang.org/x/oauth2"

	"github.com/caasmo/notefold/config"
	"github.com/caasmo/notefold/crypto"
)

var (
	ErrInvalidAssertion = errors.New("invalid identity assertion")
	ErrExchangeFailed   = errors.New("authorization code exchange failed")
	ErrEmailMissing     = errors.New("assertion carries no verified email")
)

// Identity is the provider-agnostic result of verifying an external login.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// Bridge verifies external identity proofs and produces an Identity.
type Bridge interface {
	AuthCodeURL(state, codeVerifier string) string
	ResolveFromAssertion(ctx context.Context, assertion string) (*Identity, error)
	ResolveFromCode(ctx context.Context, code, codeVerifier string) (*Identity, error)
}

// googleClaims are the ID token claims we consume. Registered claims carry
// issuer, audience and expiry, validated by the parser.
type googleClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// Google verifies Google ID tokens against the provider's published JWKS and
// exchanges authorization codes. The JWKS is fetched once and refreshed in
// the background for key rotation.
type Google struct {
	configProvider *config.Provider

	// jwks resolves token header kid to the provider's public key. Injectable
	// so tests can verify against a local key.
	jwks jwt.Keyfunc
}

func NewGoogle(provider *config.Provider) (*Google, error) {
	if provider == nil {
		return nil, fmt.Errorf("config provider cannot be nil")
	}

	pCfg, ok := provider.Get().OAuth2Providers[config.OAuth2ProviderGoogle]
	if !ok {
		return nil, fmt.Errorf("google provider is not configured")
	}

	jwks, err := keyfunc.Get(pCfg.JwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google jwks from %s: %w", pCfg.JwksURL, err)
	}

	return &Google{
		configProvider: provider,
		jwks:           jwks.Keyfunc,
	}, nil
}

// NewGoogleWithKeyfunc creates a Google bridge with a custom key resolver.
func NewGoogleWithKeyfunc(provider *config.Provider, kf jwt.Keyfunc) (*Google, error) {
	if provider == nil {
		return nil, fmt.Errorf("config provider cannot be nil")
	}
	if kf == nil {
		return nil, fmt.Errorf("keyfunc cannot be nil")
	}
	return &Google{configProvider: provider, jwks: kf}, nil
}

func (g *Google) oauthConfig() (*xoauth2.Config, config.OAuth2Provider) {
	cfg := g.configProvider.Get()
	pCfg := cfg.OAuth2Providers[config.OAuth2ProviderGoogle]
	return &xoauth2.Config{
		ClientID:     pCfg.ClientID,
		ClientSecret: pCfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL(pCfg),
		Scopes:       pCfg.Scopes,
		Endpoint: xoauth2.Endpoint{
			AuthURL:  pCfg.AuthURL,
			TokenURL: pCfg.TokenURL,
		},
	}, pCfg
}

// AuthCodeURL builds the provider consent URL for the redirect flow.
func (g *Google) AuthCodeURL(state, codeVerifier string) string {
	oCfg, pCfg := g.oauthConfig()

	opts := []xoauth2.AuthCodeOption{xoauth2.AccessTypeOffline}
	if pCfg.PKCE {
		opts = append(opts,
			xoauth2.SetAuthURLParam("code_challenge", crypto.S256Challenge(codeVerifier)),
			xoauth2.SetAuthURLParam("code_challenge_method", crypto.PKCECodeChallengeMethod),
		)
	}
	return oCfg.AuthCodeURL(state, opts...)
}

// ResolveFromAssertion verifies a raw ID token: provider signature via JWKS,
// audience equal to our client id, issuer in the configured set, and expiry.
// The email must be present and marked verified by the provider.
func (g *Google) ResolveFromAssertion(ctx context.Context, assertion string) (*Identity, error) {
	_, pCfg := g.oauthConfig()

	claims := &googleClaims{}
	token, err := jwt.ParseWithClaims(assertion, claims, g.jwks,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(pCfg.ClientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssertion, err)
	}

	issuerOk := false
	for _, iss := range pCfg.Issuers {
		if claims.Issuer == iss {
			issuerOk = true
			break
		}
	}
	if !issuerOk {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidAssertion, claims.Issuer)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidAssertion)
	}
	if claims.Email == "" || !claims.EmailVerified {
		return nil, ErrEmailMissing
	}

	return &Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}

// ResolveFromCode exchanges an authorization code for tokens and verifies the
// ID token from the exchange response with ResolveFromAssertion.
func (g *Google) ResolveFromCode(ctx context.Context, code, codeVerifier string) (*Identity, error) {
	oCfg, pCfg := g.oauthConfig()

	opts := []xoauth2.AuthCodeOption{}
	if pCfg.PKCE {
		opts = append(opts, xoauth2.SetAuthURLParam("code_verifier", codeVerifier))
	}

	token, err := oCfg.Exchange(ctx, code, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%w: response carries no id_token", ErrExchangeFailed)
	}

	return g.ResolveFromAssertion(ctx, rawIDToken)
}

package core

import (
	"log/slog"

	"github.com/caasmo/notefold/cache"
	"github.com/caasmo/notefold/config"
	"github.com/caasmo/notefold/db"
	"github.com/caasmo/notefold/oauth2"
	"github.com/caasmo/notefold/router"
)

// Option configures an App during construction.
type Option func(*App)

// WithDbApp sets the database backend for all roles.
func WithDbApp(dbApp db.DbApp) Option {
	return func(a *App) {
		a.SetDb(dbApp)
	}
}

// WithRouter sets the router implementation.
func WithRouter(r router.Router) Option {
	return func(a *App) {
		a.router = r
	}
}

// WithCache sets the cache implementation.
func WithCache(c cache.Cache[string, interface{}]) Option {
	return func(a *App) {
		a.cache = c
	}
}

// WithConfigProvider sets the configuration provider.
func WithConfigProvider(p *config.Provider) Option {
	return func(a *App) {
		a.configProvider = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithOtpIssuer sets the one-time-password issuer.
func WithOtpIssuer(i OtpIssuer) Option {
	return func(a *App) {
		a.otpIssuer = i
	}
}

// WithOauthBridge sets the external identity provider bridge.
func WithOauthBridge(b oauth2.Bridge) Option {
	return func(a *App) {
		a.oauthBridge = b
	}
}

// WithAuthenticator sets the request authenticator.
func WithAuthenticator(auth Authenticator) Option {
	return func(a *App) {
		a.authenticator = auth
	}
}

// WithValidator sets the request validator.
func WithValidator(v Validator) Option {
	return func(a *App) {
		a.validator = v
	}
}

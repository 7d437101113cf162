package core

import (
	"log/slog"

	"github.com/caasmo/notefold/cache"
	"github.com/caasmo/notefold/config"
	"github.com/caasmo/notefold/db"
	"github.com/caasmo/notefold/oauth2"
	"github.com/caasmo/notefold/router"
)

// App is the application wide context.
//
// App holds the router, the database handles, the config provider and all
// the collaborators the HTTP handlers need. Handlers hang off App so every
// request sees the same dependencies without package level state.
type App struct {
	dbAuth  db.DbAuth
	dbOtp   db.DbOtp
	dbNote  db.DbNote
	dbQueue db.DbQueue

	router         router.Router
	cache          cache.Cache[string, interface{}]
	configProvider *config.Provider
	logger         *slog.Logger

	otpIssuer     OtpIssuer
	oauthBridge   oauth2.Bridge
	authenticator Authenticator
	validator     Validator
}

// NewApp creates a new application instance with the provided options.
func NewApp(opts ...Option) (*App, error) {
	app := &App{}

	for _, opt := range opts {
		opt(app)
	}

	if app.validator == nil {
		app.validator = NewValidator()
	}
	if app.authenticator == nil {
		app.authenticator = NewDefaultAuthenticator(app.dbAuth, app.cache, app.configProvider, app.logger)
	}

	return app, nil
}

// Router returns the application's router instance
func (a *App) Router() router.Router {
	return a.router
}

// SetRouter sets the application's router instance
func (a *App) SetRouter(r router.Router) {
	a.router = r
}

// DbAuth returns the database handle for authentication operations.
func (a *App) DbAuth() db.DbAuth {
	return a.dbAuth
}

// DbOtp returns the database handle for one-time-password operations.
func (a *App) DbOtp() db.DbOtp {
	return a.dbOtp
}

// DbNote returns the database handle for note operations.
func (a *App) DbNote() db.DbNote {
	return a.dbNote
}

// DbQueue returns the database handle for queue operations.
func (a *App) DbQueue() db.DbQueue {
	return a.dbQueue
}

// SetDb wires a concrete backend into all the role interfaces at once.
// Panics on nil; an App without a database is a programming error.
func (a *App) SetDb(dbApp db.DbApp) {
	if dbApp == nil {
		panic("db cannot be nil")
	}
	a.dbAuth = dbApp
	a.dbOtp = dbApp
	a.dbNote = dbApp
	a.dbQueue = dbApp
}

// Logger returns the application's logger instance
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// SetLogger sets the application's logger instance
func (a *App) SetLogger(l *slog.Logger) {
	a.logger = l
}

// Cache returns the application's cache instance
func (a *App) Cache() cache.Cache[string, interface{}] {
	return a.cache
}

// SetCache sets the application's cache instance
func (a *App) SetCache(c cache.Cache[string, interface{}]) {
	a.cache = c
}

// Config returns the current application configuration. Handlers call this
// on every request so a hot reload takes effect immediately.
func (a *App) Config() *config.Config {
	return a.configProvider.Get()
}

// SetConfigProvider sets the application's config provider.
func (a *App) SetConfigProvider(p *config.Provider) {
	a.configProvider = p
}

// OtpIssuer returns the one-time-password issuer.
func (a *App) OtpIssuer() OtpIssuer {
	return a.otpIssuer
}

// SetOtpIssuer sets the one-time-password issuer.
func (a *App) SetOtpIssuer(i OtpIssuer) {
	a.otpIssuer = i
}

// OauthBridge returns the external identity provider bridge.
func (a *App) OauthBridge() oauth2.Bridge {
	return a.oauthBridge
}

// SetOauthBridge sets the external identity provider bridge.
func (a *App) SetOauthBridge(b oauth2.Bridge) {
	a.oauthBridge = b
}

// Auth returns the application's authenticator.
func (a *App) Auth() Authenticator {
	return a.authenticator
}

// SetAuthenticator sets the application's authenticator.
func (a *App) SetAuthenticator(auth Authenticator) {
	a.authenticator = auth
}

// Validator returns the application's request validator.
func (a *App) Validator() Validator {
	return a.validator
}

// SetValidator sets the application's request validator.
func (a *App) SetValidator(v Validator) {
	a.validator = v
}

package notefold

import (
	"net/http"

	"github.com/caasmo/notefold/core"
	"github.com/caasmo/notefold/router"
)

// routes registers the full HTTP surface on the app's router. Note
// endpoints and /api/auth/me sit behind the bearer-token middleware; the
// auth flows and the health probe are public.
func routes(app *core.App) {
	r := app.Router()

	r.HandleFunc("GET /api/health", app.HealthHandler)

	r.HandleFunc("POST /api/auth/signup", app.SignupHandler)
	r.HandleFunc("POST /api/auth/verify-otp", app.VerifyOtpHandler)
	r.HandleFunc("POST /api/auth/login", app.LoginHandler)
	r.HandleFunc("POST /api/auth/verify-login-otp", app.VerifyLoginOtpHandler)
	r.HandleFunc("POST /api/auth/resend-otp", app.ResendOtpHandler)

	if app.OauthBridge() != nil {
		r.HandleFunc("GET /api/auth/google", app.GoogleRedirectHandler)
		r.HandleFunc("POST /api/auth/google", app.GoogleAssertionHandler)
		r.HandleFunc("GET /api/auth/google/callback", app.GoogleCallbackHandler)
	}

	authed := func(h http.HandlerFunc) http.Handler {
		return router.NewChain(h).WithMiddleware(app.RequireAuth).Handler()
	}

	r.Handle("GET /api/auth/me", authed(app.MeHandler))

	r.Handle("GET /api/notes", authed(app.ListNotesHandler))
	r.Handle("POST /api/notes", authed(app.CreateNoteHandler))
	r.Handle("GET /api/notes/{id}", authed(app.GetNoteHandler))
	r.Handle("PUT /api/notes/{id}", authed(app.UpdateNoteHandler))
	r.Handle("DELETE /api/notes/{id}", authed(app.DeleteNoteHandler))
}

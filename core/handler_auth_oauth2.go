package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/caasmo/notefold/crypto"
	"github.com/caasmo/notefold/db"
	"github.com/caasmo/notefold/oauth2"
)

// oauth2FlowCookieMaxAge bounds how long a started OAuth2 redirect flow
// stays completable. Providers finish in seconds; ten minutes is generous.
const oauth2FlowCookieMaxAge = 10 * time.Minute

const (
	oauth2StateCookie    = "oauth2_state"
	oauth2VerifierCookie = "oauth2_verifier"
)

// oauth2FlowCookie builds the short-lived HttpOnly cookie carrying state
// or PKCE verifier across the provider redirect.
func oauth2FlowCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/api/auth",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// GoogleRedirectHandler starts the server-side OAuth2 flow: it generates
// the state and PKCE verifier, stores both in flow cookies, and redirects
// the browser to the provider's consent screen.
// Endpoint: GET /api/auth/google
// Authenticated: No
func (a *App) GoogleRedirectHandler(w http.ResponseWriter, r *http.Request) {
	state := crypto.Oauth2State()
	verifier := crypto.Oauth2CodeVerifier()

	maxAge := int(oauth2FlowCookieMaxAge.Seconds())
	http.SetCookie(w, oauth2FlowCookie(oauth2StateCookie, state, maxAge))
	http.SetCookie(w, oauth2FlowCookie(oauth2VerifierCookie, verifier, maxAge))

	http.Redirect(w, r, a.OauthBridge().AuthCodeURL(state, verifier), http.StatusFound)
}

// GoogleAssertionHandler authenticates with a provider-issued ID token
// obtained by a native or single-page client.
// Endpoint: POST /api/auth/google
// Authenticated: No
// Allowed Mimetype: application/json
func (a *App) GoogleAssertionHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Assertion string `json:"assertion"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.Assertion == "" {
		writeJsonError(w, errorMissingFields)
		return
	}

	identity, err := a.OauthBridge().ResolveFromAssertion(r.Context(), req.Assertion)
	if err != nil {
		writeJsonError(w, errorInvalidAssertion)
		return
	}

	user, errResp := a.resolveExternalIdentity(identity)
	if errResp != nil {
		writeJsonError(w, *errResp)
		return
	}

	cfg := a.Config()
	token, _, err := crypto.NewJwtSessionToken(user.ID, user.Email, []byte(cfg.Jwt.AuthSecret), cfg.Jwt.AuthTokenDuration.Duration)
	if err != nil {
		writeJsonError(w, errorTokenGeneration)
		return
	}

	writeAuthResponse(w, token, int(cfg.Jwt.AuthTokenDuration.Duration.Seconds()), user)
}

// GoogleCallbackHandler finishes the server-side redirect flow. The browser
// arrives here from the provider; success and failure both end in a
// redirect to the frontend, never in a JSON body.
// Endpoint: GET /api/auth/google/callback
// Authenticated: No
func (a *App) GoogleCallbackHandler(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(oauth2StateCookie)
	if err != nil {
		a.redirectFrontendError(w, r, "invalid_state")
		return
	}
	verifierCookie, err := r.Cookie(oauth2VerifierCookie)
	if err != nil {
		a.redirectFrontendError(w, r, "invalid_state")
		return
	}

	// Flow cookies are single use.
	http.SetCookie(w, oauth2FlowCookie(oauth2StateCookie, "", -1))
	http.SetCookie(w, oauth2FlowCookie(oauth2VerifierCookie, "", -1))

	if r.URL.Query().Get("state") != stateCookie.Value || stateCookie.Value == "" {
		a.redirectFrontendError(w, r, "invalid_state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		a.redirectFrontendError(w, r, "access_denied")
		return
	}

	identity, err := a.OauthBridge().ResolveFromCode(r.Context(), code, verifierCookie.Value)
	if err != nil {
		if errors.Is(err, oauth2.ErrExchangeFailed) {
			a.redirectFrontendError(w, r, "exchange_failed")
			return
		}
		a.redirectFrontendError(w, r, "invalid_assertion")
		return
	}

	user, errResp := a.resolveExternalIdentity(identity)
	if errResp != nil {
		if errResp.status == http.StatusConflict {
			a.redirectFrontendError(w, r, "identity_conflict")
			return
		}
		a.redirectFrontendError(w, r, "service_unavailable")
		return
	}

	cfg := a.Config()
	token, _, err := crypto.NewJwtSessionToken(user.ID, user.Email, []byte(cfg.Jwt.AuthSecret), cfg.Jwt.AuthTokenDuration.Duration)
	if err != nil {
		a.redirectFrontendError(w, r, "service_unavailable")
		return
	}

	http.Redirect(w, r, cfg.Server.FrontendURL+"?token="+url.QueryEscape(token), http.StatusFound)
}

func (a *App) redirectFrontendError(w http.ResponseWriter, r *http.Request, code string) {
	cfg := a.Config()
	http.Redirect(w, r, cfg.Server.FrontendURL+"?error="+url.QueryEscape(code), http.StatusFound)
}

// resolveExternalIdentity maps a verified external identity onto a user
// record. Absent user: create, verified, with the placeholder date of
// birth. Present and unlinked: attach the subject id. Present and linked
// to the same subject: proceed. Linked to a different subject: conflict,
// the account is never silently re-linked.
func (a *App) resolveExternalIdentity(identity *oauth2.Identity) (*db.User, *jsonResponse) {
	user, err := a.DbAuth().GetUserByEmail(identity.Email)
	if err != nil {
		a.Logger().Error("oauth2: user lookup failed", "error", err)
		return nil, &errorServiceUnavailable
	}

	if user == nil {
		created, err := a.DbAuth().CreateUserWithOauth2(db.User{
			Email:       identity.Email,
			Name:        identity.Name,
			DateOfBirth: db.PlaceholderDateOfBirth,
			Verified:    true,
			ExternalId:  identity.Subject,
		})
		if err != nil {
			a.Logger().Error("oauth2: create user failed", "error", err)
			return nil, &errorServiceUnavailable
		}
		// On an email conflict the create attached the subject id to the
		// existing record instead; a different already-linked subject
		// surfaces below on the returned record.
		if created.ExternalId != identity.Subject {
			return nil, &errorIdentityConflict
		}
		return created, nil
	}

	switch user.ExternalId {
	case identity.Subject:
		return user, nil
	case "":
		if err := a.DbAuth().LinkOauth2(user.ID, identity.Subject); err != nil {
			a.Logger().Error("oauth2: link failed", "user_id", user.ID, "error", err)
			return nil, &errorServiceUnavailable
		}
		user.ExternalId = identity.Subject
		return user, nil
	default:
		return nil, &errorIdentityConflict
	}
}

package core

import (
	"encoding/json"
	"net/http"
	"strings"
)

// LoginHandler starts the OTP login flow for an existing account.
// Endpoint: POST /api/auth/login
// Authenticated: No
// Allowed Mimetype: application/json
//
// An unknown email and an unverified account are both terminal: no code
// is issued.
func (a *App) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := ValidateEmail(req.Email); err != nil {
		writeJsonError(w, errorValidationEmail)
		return
	}

	user, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		a.Logger().Error("login: user lookup failed", "error", err)
		writeJsonError(w, errorServiceUnavailable)
		return
	}
	if user == nil {
		writeJsonError(w, errorNotFound)
		return
	}
	if !user.Verified {
		writeJsonError(w, errorNotVerified)
		return
	}

	if err := a.OtpIssuer().Issue(r.Context(), req.Email); err != nil {
		a.Logger().Error("login: otp issue failed", "email", req.Email, "error", err)
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	writeOtpSent(w, otpSentData{Email: req.Email})
}

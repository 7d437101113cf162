package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/caasmo/notefold/crypto"
	"github.com/caasmo/notefold/db"
)

// VerifyLoginOtpHandler completes the OTP login flow for an existing
// account and answers with a session token.
// Endpoint: POST /api/auth/verify-login-otp
// Authenticated: No
// Allowed Mimetype: application/json
func (a *App) VerifyLoginOtpHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Code = strings.TrimSpace(req.Code)
	if err := ValidateEmail(req.Email); err != nil {
		writeJsonError(w, errorValidationEmail)
		return
	}
	if req.Code == "" {
		writeJsonError(w, errorMissingFields)
		return
	}

	if _, err := a.OtpIssuer().Consume(req.Email, req.Code); err != nil {
		if errors.Is(err, db.ErrOtpNotFound) {
			writeJsonError(w, errorInvalidOtp)
			return
		}
		a.Logger().Error("verify login otp: consume failed", "email", req.Email, "error", err)
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	user, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		a.Logger().Error("verify login otp: user lookup failed", "error", err)
		writeJsonError(w, errorServiceUnavailable)
		return
	}
	if user == nil {
		// The code was valid but no account exists for the email; the
		// caller skipped the signup verification path.
		writeJsonError(w, errorNotFound)
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

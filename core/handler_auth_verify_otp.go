package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/caasmo/notefold/crypto"
	"github.com/caasmo/notefold/db"
)

// VerifyOtpHandler completes the signup flow: it burns the code, creates
// the verified user record, and answers with a session token.
// Endpoint: POST /api/auth/verify-otp
// Authenticated: No
// Allowed Mimetype: application/json
//
// The profile data (name, date of birth) round-trips through the client
// and is validated again here; it was never persisted at signup time.
// A failed code leaves the flow open, the caller may retry or resend.
func (a *App) VerifyOtpHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		Name        string `json:"name"`
		DateOfBirth string `json:"dob"`
		Password    string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.TrimSpace(req.Code)
	if err := ValidateEmail(req.Email); err != nil {
		writeJsonError(w, errorValidationEmail)
		return
	}
	if req.Code == "" {
		writeJsonError(w, errorMissingFields)
		return
	}
	if err := ValidateName(req.Name); err != nil {
		writeJsonError(w, errorValidationName)
		return
	}
	if err := ValidateDateOfBirth(req.DateOfBirth); err != nil {
		writeJsonError(w, errorValidationDob)
		return
	}

	if _, err := a.OtpIssuer().Consume(req.Email, req.Code); err != nil {
		if errors.Is(err, db.ErrOtpNotFound) {
			writeJsonError(w, errorInvalidOtp)
			return
		}
		a.Logger().Error("verify otp: consume failed", "email", req.Email, "error", err)
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	newUser := db.User{
		Email:       req.Email,
		Name:        req.Name,
		DateOfBirth: req.DateOfBirth,
		Verified:    true,
	}

	// A password may be captured at signup for legacy clients. It is
	// stored hashed and never part of a login path.
	if req.Password != "" {
		hash, err := crypto.GenerateHash(req.Password)
		if err != nil {
			writeJsonError(w, errorServiceUnavailable)
			return
		}
		newUser.Password = hash
	}

	user, err := a.DbAuth().CreateUserWithOtp(newUser)
	if err != nil {
		a.Logger().Error("verify otp: create user failed", "email", req.Email, "error", err)
		writeJsonError(w, errorServiceUnavailable)
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

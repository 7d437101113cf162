package core

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ResendOtpHandler issues a fresh code for an email with a pending flow.
// Endpoint: POST /api/auth/resend-otp
// Authenticated: No
// Allowed Mimetype: application/json
//
// Earlier unexpired codes stay valid; each one is independently
// consumable exactly once.
func (a *App) ResendOtpHandler(w http.ResponseWriter, r *http.Request) {
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

	if err := a.OtpIssuer().Issue(r.Context(), req.Email); err != nil {
		a.Logger().Error("resend otp: issue failed", "email", req.Email, "error", err)
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	writeOtpSent(w, otpSentData{Email: req.Email})
}

package core

import (
	"encoding/json"
	"net/http"
	"strings"
)

// signupTemp is the caller-supplied profile data echoed back by the signup
// handler. It is not persisted server side; the client replays it at
// verification time, where it is validated again.
type signupTemp struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"dob"`
}

// otpSentData is the payload of an ok_otp_sent response.
type otpSentData struct {
	Email string      `json:"email"`
	Temp  *signupTemp `json:"temp,omitempty"`
}

func writeOtpSent(w http.ResponseWriter, data otpSentData) {
	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkOtpSent,
			Message: "A verification code has been sent to your email",
		},
		Data: data,
	})
}

// SignupHandler starts the OTP signup flow.
// Endpoint: POST /api/auth/signup
// Authenticated: No
// Allowed Mimetype: application/json
//
// An existing account for the email is terminal: no code is issued. The
// account itself is only created later, when the code is verified.
func (a *App) SignupHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email       string `json:"email"`
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
	if err := ValidateEmail(req.Email); err != nil {
		writeJsonError(w, errorValidationEmail)
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

	existing, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		a.Logger().Error("signup: user lookup failed", "error", err)
		writeJsonError(w, errorServiceUnavailable)
		return
	}
	if existing != nil {
		writeJsonError(w, errorAlreadyExists)
		return
	}

	if err := a.OtpIssuer().Issue(r.Context(), req.Email); err != nil {
		a.Logger().Error("signup: otp issue failed", "email", req.Email, "error", err)
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	writeOtpSent(w, otpSentData{
		Email: req.Email,
		Temp:  &signupTemp{Name: req.Name, DateOfBirth: req.DateOfBirth},
	})
}

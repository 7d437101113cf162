package core

import (
	"encoding/json"
	"net/http"
)

// Standard response codes
const (
	// oks

	CodeOkOtpSent = "ok_otp_sent"
	CodeOkHealthy = "ok_healthy"
	CodeOkDeleted = "ok_deleted"

	// errors

	CodeErrorValidation          = "err_validation"
	CodeErrorAlreadyExists       = "err_already_exists"
	CodeErrorNotFound            = "err_not_found"
	CodeErrorNotVerified         = "err_not_verified"
	CodeErrorInvalidOtp          = "err_invalid_otp"
	CodeErrorInvalidAssertion    = "err_invalid_assertion"
	CodeErrorIdentityConflict    = "err_identity_conflict"
	CodeErrorServiceUnavailable  = "err_service_unavailable"
	CodeErrorNoAuthHeader        = "err_no_auth_header"
	CodeErrorInvalidTokenFormat  = "err_invalid_token_format"
	CodeErrorInvalidOrExpired    = "err_invalid_or_expired_token"
	CodeErrorTokenGeneration     = "err_token_generation"
	CodeErrorInvalidContentType  = "err_invalid_content_type"
	CodeErrorInvalidOAuth2State  = "err_invalid_oauth2_state"
)

// precomputeBasicResponse renders a short fixed response once, at package
// initialization, so request handlers only write precomputed bytes and never
// marshal JSON for the common error and ok paths.
func precomputeBasicResponse(status int, code, message string) jsonResponse {
	basic := JsonBasic{
		Status:  status,
		Code:    code,
		Message: message,
	}
	body, _ := json.Marshal(basic)
	return jsonResponse{status: status, body: body}
}

// Precomputed error and ok responses with status codes
var (
	//errors
	errorInvalidRequest       = precomputeBasicResponse(http.StatusBadRequest, CodeErrorValidation, "The request contains invalid data")
	errorMissingFields        = precomputeBasicResponse(http.StatusBadRequest, CodeErrorValidation, "Required fields are missing")
	errorValidationEmail      = precomputeBasicResponse(http.StatusBadRequest, CodeErrorValidation, "A valid email address is required")
	errorValidationName       = precomputeBasicResponse(http.StatusBadRequest, CodeErrorValidation, "A display name is required")
	errorValidationDob        = precomputeBasicResponse(http.StatusBadRequest, CodeErrorValidation, "Date of birth must use the format YYYY-MM-DD and not lie in the future")
	errorValidationTitle      = precomputeBasicResponse(http.StatusBadRequest, CodeErrorValidation, "A note title is required")
	errorAlreadyExists        = precomputeBasicResponse(http.StatusBadRequest, CodeErrorAlreadyExists, "An account with this email already exists")
	errorNotFound             = precomputeBasicResponse(http.StatusNotFound, CodeErrorNotFound, "Requested resource not found")
	errorNotVerified          = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorNotVerified, "Account email is not verified")
	errorInvalidOtp           = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidOtp, "Verification code is invalid or has expired")
	errorInvalidAssertion     = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidAssertion, "Identity assertion could not be verified")
	errorIdentityConflict     = precomputeBasicResponse(http.StatusConflict, CodeErrorIdentityConflict, "Account is already linked to a different external identity")
	errorServiceUnavailable   = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorServiceUnavailable, "Service is temporarily unavailable")
	errorNoAuthHeader         = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorNoAuthHeader, "Authorization header is required")
	errorInvalidTokenFormat   = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorInvalidTokenFormat, "Invalid authorization token format")
	errorInvalidOrExpiredToken = precomputeBasicResponse(http.StatusForbidden, CodeErrorInvalidOrExpired, "Authentication token is invalid or has expired")
	errorTokenGeneration      = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorTokenGeneration, "Failed to generate authentication token")
	errorInvalidContentType   = precomputeBasicResponse(http.StatusUnsupportedMediaType, CodeErrorInvalidContentType, "Unsupported media type")
	errorInvalidOAuth2State   = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidOAuth2State, "OAuth2 state mismatch or missing flow cookies")

	// oks
	okHealthy = precomputeBasicResponse(http.StatusOK, CodeOkHealthy, "Service is healthy")
	okDeleted = precomputeBasicResponse(http.StatusOK, CodeOkDeleted, "Note deleted")
)

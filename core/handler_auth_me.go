package core

import (
	"net/http"
)

// MeHandler returns the authenticated user's own record.
// Endpoint: GET /api/auth/me
// Authenticated: Yes
func (a *App) MeHandler(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeJsonError(w, errorNoAuthHeader)
		return
	}

	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkAuthentication,
			Message: "Authenticated user",
		},
		Data: AuthRecord{
			ID:       user.ID,
			Email:    user.Email,
			Name:     user.Name,
			Verified: user.Verified,
		},
	})
}

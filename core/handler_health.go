package core

import (
	"net/http"
)

// HealthHandler is a liveness probe.
// Endpoint: GET /api/health
// Authenticated: No
func (a *App) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonOk(w, okHealthy)
}

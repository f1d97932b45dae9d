package handlers

import (
	"net/http"

	"tidymark/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready   bool `json:"ready"`
	Configs int  `json:"configs"`
}

// Readyz reports readiness: the server can organize once at least one
// provider config is registered.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := d.Registry.Count()
		ready := count > 0

		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, readyzResponse{
			Ready:   ready,
			Configs: count,
		})
	}
}

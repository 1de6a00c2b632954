//go:build !swagger

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountSwagger serves a plain JSON route index at /docs. Build with
// -tags=swagger for the interactive Swagger UI.
func MountSwagger(r chi.Router) {
	r.Get("/docs", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "curator",
			"endpoints": []string{
				"GET /locations",
				"POST /locations",
				"GET /locations/{id}",
				"DELETE /locations/{id}",
				"GET /images",
				"GET /images/{id}",
				"GET /images/{id}/file",
				"GET /search",
				"POST /scan",
				"GET /status",
				"GET /healthz",
				"GET /readyz",
				"GET /metrics",
			},
		})
	})
}

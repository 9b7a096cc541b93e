package handlers

import (
	"net/http"

	"github.com/gabeliss/tickX/pkg/common"
)

// Health handles GET /health
func Health(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		common.RespondJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"version": version,
		})
	}
}

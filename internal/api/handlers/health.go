package handlers

import (
	"net/http"

	"github.com/gregverse/gregverse/internal/api"
)

// Health is the liveness endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

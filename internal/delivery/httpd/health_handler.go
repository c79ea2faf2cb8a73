package httpd

import (
	"net/http"
	"time"
)

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "report-portal",
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, http.StatusOK, response)
}

package handlers

import (
	"net/http"

	"moaqeb-backend/internal/health"
	"moaqeb-backend/internal/monitoring"
)

type HealthHandler struct {
	Checker *health.HealthChecker
}

func NewHealthHandler(c *health.HealthChecker) *HealthHandler {
	return &HealthHandler{Checker: c}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.Checker.CheckBasic()
	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// SystemStats reports host resource usage to the platform operator
func (h *HealthHandler) SystemStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, monitoring.Collect())
}

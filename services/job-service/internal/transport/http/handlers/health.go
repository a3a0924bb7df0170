package handlers

import (
	"net/http"

	"github.com/recrutment/hireai/services/job-service/internal/transport/http/response"
)

// HealthHandler answers liveness and readiness checks. Readiness only means
// the server is up; the job store is in-process and the publisher reconnects.
type HealthHandler struct{}

func (HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.Data(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	response.Data(w, http.StatusOK, map[string]string{"status": "ready"})
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/recrutment/hireai/services/gateway/internal/transport/http/response"
)

// Check is one named readiness check.
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
	// Optional checks are reported but never fail readiness.
	Optional bool
}

type HealthHandler struct {
	checks []Check
}

func NewHealthHandler(checks ...Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	ready := true
	for _, c := range h.checks {
		if err := c.Fn(ctx); err != nil {
			results[c.Name] = "down"
			if !c.Optional {
				ready = false
			}
			continue
		}
		results[c.Name] = "ok"
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	response.WriteJSON(w, status, results)
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/recrutment/hireai/services/audit-service/internal/transport/http/response"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db       Pinger
	consumer func() bool
}

func NewHealthHandler(db Pinger, consumerReady func() bool) *HealthHandler {
	return &HealthHandler{db: db, consumer: consumerReady}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.Data(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports 503 until the database answers and the consumer holds a channel.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"db": "ok", "consumer": "ok"}
	ready := true

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			checks["db"] = "down"
			ready = false
		}
	}
	if h.consumer != nil && !h.consumer() {
		checks["consumer"] = "down"
		ready = false
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	response.Data(w, status, checks)
}

package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/recrutment/hireai/internal/transport/middleware"
	"github.com/recrutment/hireai/services/audit-service/internal/transport/http/handlers"
)

type RateLimit struct {
	Enabled bool
	Limit   int
	Window  time.Duration
}

func New(h *handlers.RecordsHandler, z *handlers.HealthHandler, rl RateLimit) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog)

	r.Get("/healthz", z.Healthz)
	r.Get("/readyz", z.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/audit/v1", func(r chi.Router) {
		if rl.Enabled && rl.Limit > 0 {
			r.Use(httprate.LimitByIP(rl.Limit, rl.Window))
		}
		r.Get("/records", h.List)
		r.Get("/records/{id}", h.Get)
	})

	return r
}

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/recrutment/hireai/internal/transport/middleware"
	"github.com/recrutment/hireai/services/job-service/internal/transport/http/handlers"
)

func New(jobs *handlers.JobsHandler, health handlers.HealthHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog)

	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/jobs", func(r chi.Router) {
		r.Use(middleware.Actor)
		r.Post("/", jobs.Create)
		r.Get("/{id}", jobs.Get)
		r.Put("/{id}", jobs.Update)
	})

	return r
}

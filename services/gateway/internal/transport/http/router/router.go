package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	sharedmw "github.com/recrutment/hireai/internal/transport/middleware"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	Roles(w http.ResponseWriter, r *http.Request)
	ListUsers(w http.ResponseWriter, r *http.Request)
	ListUsersPaged(w http.ResponseWriter, r *http.Request)
	GetUser(w http.ResponseWriter, r *http.Request)
	GetUserRoles(w http.ResponseWriter, r *http.Request)
	UpdateUserRoles(w http.ResponseWriter, r *http.Request)
	BlockUser(w http.ResponseWriter, r *http.Request)
	UnblockUser(w http.ResponseWriter, r *http.Request)
	DeleteUser(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health HealthHandler
	Admin  AdminHandler

	// AdminRateLimit wraps /api/admin; nil disables it.
	AdminRateLimit func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Admin == nil {
		return nil, fmt.Errorf("nil Admin handler")
	}

	r := chi.NewRouter()
	r.Use(sharedmw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(sharedmw.AccessLog)

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(sharedmw.Actor)
		if deps.AdminRateLimit != nil {
			r.Use(deps.AdminRateLimit)
		}

		r.Get("/roles", deps.Admin.Roles)

		r.Get("/users", deps.Admin.ListUsers)
		r.Get("/users/paged", deps.Admin.ListUsersPaged)
		r.Get("/users/{id}", deps.Admin.GetUser)
		r.Delete("/users/{id}", deps.Admin.DeleteUser)

		r.Get("/users/{id}/roles", deps.Admin.GetUserRoles)
		r.Put("/users/{id}/roles", deps.Admin.UpdateUserRoles)
		r.Put("/users/{id}/block", deps.Admin.BlockUser)
		r.Put("/users/{id}/unblock", deps.Admin.UnblockUser)
	})

	return r, nil
}

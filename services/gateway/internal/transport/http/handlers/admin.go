package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recrutment/hireai/internal/pkg/reqctx"
	"github.com/recrutment/hireai/services/gateway/internal/application/admin"
	"github.com/recrutment/hireai/services/gateway/internal/domain"
	"github.com/recrutment/hireai/services/gateway/internal/transport/http/dto"
	"github.com/recrutment/hireai/services/gateway/internal/transport/http/response"
)

type AdminService interface {
	AssignableRoles() []string
	ListUsers(ctx context.Context, first, max int, search string) ([]domain.User, error)
	ListUsersPaged(ctx context.Context, page, size int, search string) (domain.UserPage, error)
	GetProfile(ctx context.Context, userID string) (domain.User, error)
	AllowedRoles(ctx context.Context, userID string) ([]string, error)
	UpdateAllowedRoles(ctx context.Context, userID string, requested []string, reason, actorUserID string) error
	BlockUser(ctx context.Context, userID, reason, actorUserID string) error
	UnblockUser(ctx context.Context, userID, reason, actorUserID string) error
	DeleteUser(ctx context.Context, userID, reason, actorUserID string) error
}

type AdminHandler struct {
	svc AdminService
}

func NewAdminHandler(svc AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// GET /api/admin/roles
func (h *AdminHandler) Roles(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.svc.AssignableRoles())
}

// GET /api/admin/users?first&max&search
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	first, err := dto.IntQuery(q.Get("first"), "first", 0)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	max, err := dto.IntQuery(q.Get("max"), "max", admin.DefaultListMax)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	users, err := h.svc.ListUsers(r.Context(), first, max, q.Get("search"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, users)
}

// GET /api/admin/users/paged?page&size&search
func (h *AdminHandler) ListUsersPaged(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := dto.IntQuery(q.Get("page"), "page", 0)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	size, err := dto.IntQuery(q.Get("size"), "size", admin.DefaultPageSize)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	out, err := h.svc.ListUsersPaged(r.Context(), page, size, q.Get("search"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, out)
}

// GET /api/admin/users/{id}
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, u)
}

// GET /api/admin/users/{id}/roles
func (h *AdminHandler) GetUserRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.svc.AllowedRoles(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.RolesResponse{Roles: roles})
}

// PUT /api/admin/users/{id}/roles
func (h *AdminHandler) UpdateUserRoles(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateRolesRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	ctx := r.Context()
	if err := h.svc.UpdateAllowedRoles(ctx, chi.URLParam(r, "id"), req.Roles, req.Reason, reqctx.ActorUserID(ctx)); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}

// PUT /api/admin/users/{id}/block
func (h *AdminHandler) BlockUser(w http.ResponseWriter, r *http.Request) {
	h.withReason(w, r, h.svc.BlockUser)
}

// PUT /api/admin/users/{id}/unblock
func (h *AdminHandler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	h.withReason(w, r, h.svc.UnblockUser)
}

// DELETE /api/admin/users/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	h.withReason(w, r, h.svc.DeleteUser)
}

func (h *AdminHandler) withReason(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, reason, actorUserID string) error) {
	var req dto.ReasonRequest
	if err := response.DecodeOptionalJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	ctx := r.Context()
	if err := op(ctx, chi.URLParam(r, "id"), req.Reason, reqctx.ActorUserID(ctx)); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}

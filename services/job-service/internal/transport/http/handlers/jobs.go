package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/recrutment/hireai/internal/pkg/reqctx"
	"github.com/recrutment/hireai/services/job-service/internal/domain"
	"github.com/recrutment/hireai/services/job-service/internal/transport/http/dto"
	"github.com/recrutment/hireai/services/job-service/internal/transport/http/response"
)

type JobService interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Job, error)
	Create(ctx context.Context, j domain.Job, actorUserID string) (domain.Job, error)
	Update(ctx context.Context, id uuid.UUID, j domain.Job, reason, actorUserID string) (domain.Job, error)
}

type JobsHandler struct {
	svc JobService
}

func NewJobsHandler(svc JobService) *JobsHandler {
	return &JobsHandler{svc: svc}
}

// POST /api/jobs
func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJob(w, r)
	if !ok {
		return
	}
	j, err := h.svc.Create(r.Context(), req.ToDomain(), reqctx.ActorUserID(r.Context()))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, dto.FromDomain(j))
}

// GET /api/jobs/{id}
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}
	j, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromDomain(j))
}

// PUT /api/jobs/{id}
func (h *JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}
	req, ok := decodeJob(w, r)
	if !ok {
		return
	}
	j, err := h.svc.Update(r.Context(), id, req.ToDomain(), req.Reason, reqctx.ActorUserID(r.Context()))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromDomain(j))
}

func decodeJob(w http.ResponseWriter, r *http.Request) (dto.JobRequest, bool) {
	var req dto.JobRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Err(w, r, err)
		return req, false
	}
	if err := req.Validate(); err != nil {
		response.Err(w, r, err)
		return req, false
	}
	return req, true
}

func jobID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		response.Err(w, r, response.BadRequest("invalid_id", "job id must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

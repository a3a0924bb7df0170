package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/recrutment/hireai/services/audit-service/internal/domain"
	"github.com/recrutment/hireai/services/audit-service/internal/transport/http/response"
)

type RecordService interface {
	List(ctx context.Context, f domain.RecordFilter) ([]domain.AuditRecord, error)
	Get(ctx context.Context, id string) (domain.AuditRecord, error)
}

type RecordsHandler struct {
	svc RecordService
}

func NewRecordsHandler(svc RecordService) *RecordsHandler {
	return &RecordsHandler{svc: svc}
}

// RecordView is the JSON rendering of an AuditRecord. Serialized JSON columns are
// emitted as embedded JSON rather than strings.
type RecordView struct {
	ID            string          `json:"id"`
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Producer      string          `json:"producer"`
	ActorUserID   string          `json:"actorUserId"`
	ActorRoles    json.RawMessage `json:"actorRoles"`
	TargetType    *string         `json:"targetType"`
	TargetID      *string         `json:"targetId"`
	Reason        *string         `json:"reason"`
	Changes       json.RawMessage `json:"changes"`
	Payload       json.RawMessage `json:"payload"`
	CorrelationID *string         `json:"correlationId"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func toView(rec domain.AuditRecord) RecordView {
	return RecordView{
		ID:            rec.ID.String(),
		EventID:       rec.EventID.String(),
		EventType:     rec.EventType,
		OccurredAt:    rec.OccurredAt,
		Producer:      rec.Producer,
		ActorUserID:   rec.ActorUserID,
		ActorRoles:    rawJSON(rec.ActorRoles),
		TargetType:    rec.TargetType,
		TargetID:      rec.TargetID,
		Reason:        rec.Reason,
		Changes:       rawJSON(rec.Changes),
		Payload:       rawJSON(rec.Payload),
		CorrelationID: rec.CorrelationID,
		CreatedAt:     rec.CreatedAt,
	}
}

func rawJSON(s *string) json.RawMessage {
	if s == nil || !json.Valid([]byte(*s)) {
		return json.RawMessage("null")
	}
	return json.RawMessage(*s)
}

// List handles GET /audit/v1/records
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := domain.RecordFilter{
		TargetType: q.Get("targetType"),
		TargetID:   q.Get("targetId"),
		EventType:  q.Get("eventType"),
		ActorID:    q.Get("actorUserId"),
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Err(w, r, domain.ErrValidationMeta("limit must be an integer", map[string]string{"field": "limit"}))
			return
		}
		f.Limit = n
	}

	recs, err := h.svc.List(r.Context(), f)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	views := make([]RecordView, 0, len(recs))
	for _, rec := range recs {
		views = append(views, toView(rec))
	}
	response.Data(w, http.StatusOK, views)
}

// Get handles GET /audit/v1/records/{id}
func (h *RecordsHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, toView(rec))
}

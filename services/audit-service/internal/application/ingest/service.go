package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/recrutment/hireai/internal/contracts/audit"
	"github.com/recrutment/hireai/services/audit-service/internal/domain"
	"github.com/recrutment/hireai/services/audit-service/internal/metrics"
)

const (
	unknownEventType = "UNKNOWN"
	unknownProducer  = "unknown"
)

// Service turns raw audit deliveries into immutable AuditRecords.
type Service struct {
	store RecordStore
	clock Clock
	newID func() uuid.UUID
	log   zerolog.Logger
}

func NewService(store RecordStore, clock Clock, lg zerolog.Logger) *Service {
	return &Service{
		store: store,
		clock: clock,
		newID: uuid.New,
		log:   lg.With().Str("component", "audit_ingest").Logger(),
	}
}

// Handle decodes, normalizes and persists one message body.
// Errors wrap audit.ErrMalformed for undecodable input; anything else is a store failure.
func (s *Service) Handle(ctx context.Context, body []byte) error {
	evt, err := audit.Decode(body)
	if err != nil {
		return err
	}

	rec, err := s.Normalize(evt)
	if err != nil {
		return err
	}

	if rec.Changes == nil {
		metrics.MissingChanges.WithLabelValues(rec.EventType).Inc()
		s.log.Warn().
			Str("event_id", rec.EventID.String()).
			Str("event_type", rec.EventType).
			Str("producer", rec.Producer).
			Msg("audit event has no changes")
	}

	if err := s.store.Insert(ctx, &rec); err != nil {
		return fmt.Errorf("persist audit record %s: %w", rec.EventID, err)
	}

	s.log.Info().
		Str("record_id", rec.ID.String()).
		Str("event_id", rec.EventID.String()).
		Str("event_type", rec.EventType).
		Str("actor_user_id", rec.ActorUserID).
		Msg("audit record stored")
	return nil
}

// Normalize fills defaults for missing fields and serializes the JSON-typed columns.
func (s *Service) Normalize(evt audit.Event) (domain.AuditRecord, error) {
	now := s.clock.Now().UTC()

	var eventID uuid.UUID
	if raw := strings.TrimSpace(evt.EventID); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return domain.AuditRecord{}, fmt.Errorf("%w: eventId %q: %v", audit.ErrMalformed, raw, err)
		}
		eventID = parsed
	} else {
		eventID = s.newID()
	}

	occurredAt := evt.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	rec := domain.AuditRecord{
		ID:            s.newID(),
		EventID:       eventID,
		EventType:     firstNonBlank(evt.EventType, unknownEventType),
		OccurredAt:    occurredAt.UTC(),
		Producer:      firstNonBlank(evt.Producer, unknownProducer),
		ActorUserID:   audit.ActorSystem,
		Reason:        optional(evt.Reason),
		CorrelationID: optional(evt.CorrelationID),
		CreatedAt:     now,
	}

	if evt.Actor != nil {
		rec.ActorUserID = firstNonBlank(evt.Actor.UserID, audit.ActorSystem)
		if len(evt.Actor.Roles) > 0 {
			roles, err := marshalText(evt.Actor.Roles)
			if err != nil {
				return domain.AuditRecord{}, fmt.Errorf("%w: actor roles: %v", audit.ErrMalformed, err)
			}
			rec.ActorRoles = roles
		}
	}

	if evt.Target != nil {
		rec.TargetType = optional(evt.Target.Type)
		rec.TargetID = optional(evt.Target.ID)
	}

	if len(evt.Changes) > 0 {
		changes, err := marshalText(evt.Changes)
		if err != nil {
			return domain.AuditRecord{}, fmt.Errorf("%w: changes: %v", audit.ErrMalformed, err)
		}
		rec.Changes = changes
	}

	if len(evt.Payload) > 0 {
		payload, err := marshalText(evt.Payload)
		if err != nil {
			return domain.AuditRecord{}, fmt.Errorf("%w: payload: %v", audit.ErrMalformed, err)
		}
		rec.Payload = payload
	}

	return rec, nil
}

func marshalText(v any) (*string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// text drops NUL characters, which Postgres refuses in text columns.
func text(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
}

func optional(s string) *string {
	s = text(s)
	if s == "" {
		return nil
	}
	return &s
}

func firstNonBlank(v, def string) string {
	if v = text(v); v != "" {
		return v
	}
	return def
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

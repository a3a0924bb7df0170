package records

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/recrutment/hireai/services/audit-service/internal/domain"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Reader is the read side of the audit store.
type Reader interface {
	List(ctx context.Context, f domain.RecordFilter) ([]domain.AuditRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.AuditRecord, error)
}

// Service answers audit trail queries. There is no write path here.
type Service struct {
	reader Reader
}

func NewService(r Reader) *Service { return &Service{reader: r} }

// List matches filters exactly as stored; tags are free-form and case-sensitive.
func (s *Service) List(ctx context.Context, f domain.RecordFilter) ([]domain.AuditRecord, error) {
	f.TargetType = strings.TrimSpace(f.TargetType)
	f.TargetID = strings.TrimSpace(f.TargetID)
	f.EventType = strings.TrimSpace(f.EventType)
	f.ActorID = strings.TrimSpace(f.ActorID)

	if f.TargetID != "" && f.TargetType == "" {
		return nil, domain.ErrValidationMeta("targetId requires targetType", map[string]string{"field": "targetType"})
	}

	switch {
	case f.Limit <= 0:
		f.Limit = DefaultLimit
	case f.Limit > MaxLimit:
		f.Limit = MaxLimit
	}
	return s.reader.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, rawID string) (domain.AuditRecord, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return domain.AuditRecord{}, domain.ErrValidationMeta("invalid record id", map[string]string{"field": "id"})
	}
	return s.reader.GetByID(ctx, id)
}

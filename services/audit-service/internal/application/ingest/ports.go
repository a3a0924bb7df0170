package ingest

import (
	"context"
	"time"

	"github.com/recrutment/hireai/services/audit-service/internal/domain"
)

/*
RecordStore

Append-only persistence of audit records.
Implementations must not update or delete existing rows.
*/
type RecordStore interface {
	Insert(ctx context.Context, rec *domain.AuditRecord) error
}

type Clock interface {
	Now() time.Time
}

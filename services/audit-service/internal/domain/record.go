package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditRecord is one persisted audit event. Records are written once and never updated.
// Nullable columns are pointers; JSON-typed columns hold serialized text.
type AuditRecord struct {
	ID            uuid.UUID
	EventID       uuid.UUID
	EventType     string
	OccurredAt    time.Time
	Producer      string
	ActorUserID   string
	ActorRoles    *string
	TargetType    *string
	TargetID      *string
	Reason        *string
	Changes       *string
	Payload       *string
	CorrelationID *string
	CreatedAt     time.Time
}

// RecordFilter narrows a record listing. Empty fields do not filter.
type RecordFilter struct {
	TargetType string
	TargetID   string
	EventType  string
	ActorID    string
	Limit      int
}

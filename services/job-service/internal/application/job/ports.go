package job

import (
	"context"

	"github.com/google/uuid"

	"github.com/recrutment/hireai/internal/contracts/audit"
	"github.com/recrutment/hireai/services/job-service/internal/domain"
)

// JobRepo stores job offers. Get reports a missing job with domain.ErrJobNotFound.
type JobRepo interface {
	Create(ctx context.Context, j domain.Job) (domain.Job, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Job, error)
	Update(ctx context.Context, j domain.Job) (domain.Job, error)
}

// EventPublisher emits audit events. It never fails the caller.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, evt audit.Event)
}

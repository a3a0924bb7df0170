package job

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/recrutment/hireai/internal/contracts/audit"
	"github.com/recrutment/hireai/internal/pkg/reqctx"
	"github.com/recrutment/hireai/services/job-service/internal/domain"
)

const DefaultProducer = "job-microservice"

// Service manages job offers and records creations and edits as audit events.
// Events are emitted only after the change is stored.
type Service struct {
	repo     JobRepo
	pub      EventPublisher
	producer string
	newID    func() uuid.UUID
	log      zerolog.Logger
}

func NewService(repo JobRepo, pub EventPublisher, producer string) *Service {
	producer = strings.TrimSpace(producer)
	if producer == "" {
		producer = DefaultProducer
	}
	return &Service{
		repo:     repo,
		pub:      pub,
		producer: producer,
		newID:    uuid.New,
		log:      zerolog.Nop(),
	}
}

func (s *Service) WithLogger(l zerolog.Logger) *Service {
	s.log = l
	return s
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Job, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new job and emits JOB_CREATED.
func (s *Service) Create(ctx context.Context, j domain.Job, actorUserID string) (domain.Job, error) {
	if err := j.Validate(); err != nil {
		return domain.Job{}, err
	}
	if j.ID == uuid.Nil {
		j.ID = s.newID()
	}
	j.Requirements = slices.Clone(j.Requirements)

	saved, err := s.repo.Create(ctx, j)
	if err != nil {
		return domain.Job{}, fmt.Errorf("create job: %w", err)
	}

	s.emit(ctx, audit.TypeJobCreated, saved.ID, actorUserID, "", nil)
	s.log.Info().Str("job_id", saved.ID.String()).Msg("job created")
	return saved, nil
}

// Update replaces the editable fields of job id with those of j, requirements
// included, and emits JOB_UPDATED with the changed fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, j domain.Job, reason, actorUserID string) (domain.Job, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Job{}, fmt.Errorf("load job %s: %w", id, err)
	}
	before := existing

	existing.Title = j.Title
	existing.Description = j.Description
	existing.Location = j.Location
	existing.MinSalary = j.MinSalary
	existing.MaxSalary = j.MaxSalary
	existing.EmploymentType = j.EmploymentType
	existing.JobStatus = j.JobStatus
	existing.Requirements = slices.Clone(j.Requirements)

	if err := existing.Validate(); err != nil {
		return domain.Job{}, err
	}

	saved, err := s.repo.Update(ctx, existing)
	if err != nil {
		return domain.Job{}, fmt.Errorf("update job %s: %w", id, err)
	}

	changes := Diff(before, saved)
	s.emit(ctx, audit.TypeJobUpdated, saved.ID, actorUserID, strings.TrimSpace(reason), changes)
	s.log.Info().Str("job_id", saved.ID.String()).Int("changed_fields", len(changes)).Msg("job updated")
	return saved, nil
}

func (s *Service) emit(ctx context.Context, eventType string, jobID uuid.UUID, actorUserID, reason string, changes map[string]any) {
	actorID := strings.TrimSpace(actorUserID)
	if actorID == "" {
		actorID = audit.ActorSystem
	}
	s.pub.Publish(ctx, audit.RoutingKeyJob, audit.Event{
		EventType: eventType,
		Producer:  s.producer,
		Actor:     &audit.Actor{UserID: actorID},
		Target: &audit.Target{
			Type: audit.TargetJob,
			ID:   jobID.String(),
		},
		Reason:        reason,
		Changes:       changes,
		CorrelationID: reqctx.RequestID(ctx),
	})
}

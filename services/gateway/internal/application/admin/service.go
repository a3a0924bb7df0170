package admin

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/recrutment/hireai/internal/contracts/audit"
	"github.com/recrutment/hireai/internal/pkg/reqctx"
	"github.com/recrutment/hireai/services/gateway/internal/domain"
	"github.com/recrutment/hireai/services/gateway/internal/infrastructure/keycloak"
)

const (
	DefaultProducer = "gatewayserver"

	defaultRolesReason   = "Roles updated by admin"
	defaultBlockReason   = "Blocked by admin"
	defaultUnblockReason = "Unblocked by admin"
	defaultDeleteReason  = "Deleted by admin"
)

type Config struct {
	// Producer is stamped on every emitted event.
	Producer string
	// ActorRoles are recorded as the acting user's roles; defaults to [ADMIN].
	ActorRoles []string
	// Roles is the assignable set; defaults to domain.DefaultRoleSet.
	Roles domain.RoleSet
}

// Service implements the admin user-management operations on top of the
// identity directory and records every change as an audit event.
type Service struct {
	dir Directory
	pub EventPublisher

	roles      domain.RoleSet
	producer   string
	actorRoles []string

	audit func(action string, fields map[string]string)
	log   zerolog.Logger
}

func NewService(dir Directory, pub EventPublisher, cfg Config) *Service {
	producer := strings.TrimSpace(cfg.Producer)
	if producer == "" {
		producer = DefaultProducer
	}
	actorRoles := slices.Clone(cfg.ActorRoles)
	if len(actorRoles) == 0 {
		actorRoles = []string{string(domain.RoleAdmin)}
	}
	roles := cfg.Roles
	if roles.Len() == 0 {
		roles = domain.DefaultRoleSet()
	}
	return &Service{
		dir:        dir,
		pub:        pub,
		roles:      roles,
		producer:   producer,
		actorRoles: actorRoles,
		audit:      func(string, map[string]string) {},
		log:        zerolog.Nop(),
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

func (s *Service) WithLogger(l zerolog.Logger) *Service {
	s.log = l
	return s
}

// auditor returns the per-call audit closure used by every mutating operation.
func (s *Service) auditor(action, actorID, targetID string) func(result string, err error, extra map[string]string) {
	return func(result string, err error, extra map[string]string) {
		fields := map[string]string{
			"actor_id":  actorID,
			"target_id": targetID,
			"result":    result,
		}
		if err != nil {
			fields["error_code"] = domainCode(err)
		}
		for k, v := range extra {
			fields[k] = v
		}
		s.audit(action, fields)
	}
}

// emitUserEvent publishes one event about a user on audit.user.
func (s *Service) emitUserEvent(ctx context.Context, eventType, userID, actorID, reason string, changes, payload map[string]any) {
	s.pub.Publish(ctx, audit.RoutingKeyUser, audit.Event{
		EventType: eventType,
		Producer:  s.producer,
		Actor: &audit.Actor{
			UserID: actorID,
			Roles:  slices.Clone(s.actorRoles),
		},
		Target: &audit.Target{
			Type: audit.TargetUser,
			ID:   userID,
		},
		Reason:        reason,
		Changes:       changes,
		Payload:       payload,
		CorrelationID: reqctx.RequestID(ctx),
	})
}

func actorOrSystem(actorID string) string {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return audit.ActorSystem
	}
	return actorID
}

func reasonOr(reason, fallback string) string {
	if r := strings.TrimSpace(reason); r != "" {
		return r
	}
	return fallback
}

// directoryError maps directory failures onto domain errors.
func directoryError(err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, keycloak.ErrNotFound) {
		return domain.Wrap(domain.KindNotFound, "user_not_found", "user not found", err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return domain.ErrDirectoryUnavailable(err)
}

func domainCode(err error) string {
	if err == nil {
		return ""
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "non_domain_error"
}

package admin

import (
	"context"

	"github.com/recrutment/hireai/internal/contracts/audit"
	"github.com/recrutment/hireai/services/gateway/internal/domain"
)

// Directory is the identity directory admin surface the service needs.
// Implementations report a missing user with an error matching keycloak.ErrNotFound.
type Directory interface {
	ListUsers(ctx context.Context, first, max int, search string) ([]domain.User, error)
	CountUsers(ctx context.Context, search string) (int64, error)
	GetUser(ctx context.Context, userID string) (domain.User, error)

	GetUserRealmRoles(ctx context.Context, userID string) ([]domain.DirectoryRole, error)
	ListRealmRoles(ctx context.Context) ([]domain.DirectoryRole, error)
	AddRealmRoles(ctx context.Context, userID string, roles []domain.DirectoryRole) error
	RemoveRealmRoles(ctx context.Context, userID string, roles []domain.DirectoryRole) error

	SetUserEnabled(ctx context.Context, userID string, enabled bool) error
	DeleteUser(ctx context.Context, userID string) error
}

// EventPublisher emits audit events. It never fails the caller.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, evt audit.Event)
}

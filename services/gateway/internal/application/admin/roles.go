package admin

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/recrutment/hireai/internal/contracts/audit"
	"github.com/recrutment/hireai/services/gateway/internal/domain"
	"github.com/recrutment/hireai/services/gateway/internal/metrics"
)

// RoleDelta is the result of comparing the requested roles with the user's current ones.
type RoleDelta struct {
	OldRoles []string
	NewRoles []string
	ToAdd    []domain.DirectoryRole
	ToRemove []domain.DirectoryRole
}

func (d RoleDelta) Empty() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0
}

// Reconcile computes the mappings to add and remove so that the user's assignable
// roles become exactly requested. Roles outside the set are never touched.
// requested must already be validated against allowed.
// A role that has to be added but is not defined in the directory fails the whole
// computation with role_not_in_directory.
func Reconcile(allowed domain.RoleSet, realm, current []domain.DirectoryRole, requested []string) (RoleDelta, error) {
	defined := make(map[string]domain.DirectoryRole, len(realm))
	for _, r := range realm {
		if allowed.Contains(r.Name) {
			defined[r.Name] = r
		}
	}

	held := make(map[string]domain.DirectoryRole, len(current))
	for _, r := range current {
		if _, dup := held[r.Name]; !dup && allowed.Contains(r.Name) {
			held[r.Name] = r
		}
	}

	d := RoleDelta{
		OldRoles: make([]string, 0, len(held)),
		NewRoles: allowed.Filter(requested),
	}
	for name := range held {
		d.OldRoles = append(d.OldRoles, name)
	}
	slices.Sort(d.OldRoles)

	for _, name := range d.NewRoles {
		if _, ok := held[name]; ok {
			continue
		}
		rep, ok := defined[name]
		if !ok {
			return RoleDelta{}, domain.ErrRoleNotInDirectory(name)
		}
		d.ToAdd = append(d.ToAdd, rep)
	}
	for _, name := range d.OldRoles {
		if slices.Contains(d.NewRoles, name) {
			continue
		}
		rep, ok := defined[name]
		if !ok {
			rep = held[name]
		}
		d.ToRemove = append(d.ToRemove, rep)
	}
	return d, nil
}

// UpdateAllowedRoles makes the user's assignable roles exactly requested.
// Reads run concurrently and any failure aborts before the event; the event is
// emitted before the directory is mutated, then additions are applied before removals.
func (s *Service) UpdateAllowedRoles(ctx context.Context, userID string, requested []string, reason, actorUserID string) error {
	const action = "admin.update_roles"

	userID = strings.TrimSpace(userID)
	actorID := actorOrSystem(actorUserID)
	logAudit := s.auditor(action, actorID, userID)

	if userID == "" {
		err := domain.ErrMissingField("user_id")
		logAudit("error", err, nil)
		metrics.Reconciliations.WithLabelValues("rejected").Inc()
		return err
	}

	want, err := s.validateRequested(requested)
	if err != nil {
		logAudit("error", err, nil)
		metrics.Reconciliations.WithLabelValues("rejected").Inc()
		return err
	}

	var realm, current []domain.DirectoryRole
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.dir.ListRealmRoles(gctx)
		realm = r
		return err
	})
	g.Go(func() error {
		r, err := s.dir.GetUserRealmRoles(gctx, userID)
		current = r
		return err
	})
	if err := g.Wait(); err != nil {
		err = directoryError(err)
		logAudit("error", err, nil)
		metrics.Reconciliations.WithLabelValues("failed").Inc()
		return err
	}

	delta, err := Reconcile(s.roles, realm, current, want)
	if err != nil {
		logAudit("error", err, nil)
		metrics.Reconciliations.WithLabelValues("rejected").Inc()
		return err
	}

	s.emitUserEvent(ctx, audit.TypeRoleUpdate, userID, actorID, reasonOr(reason, defaultRolesReason),
		map[string]any{
			"oldRoles": delta.OldRoles,
			"newRoles": delta.NewRoles,
		}, nil)

	if len(delta.ToAdd) > 0 {
		if err := s.dir.AddRealmRoles(ctx, userID, delta.ToAdd); err != nil {
			err = directoryError(err)
			logAudit("error", err, map[string]string{"stage": "add"})
			metrics.Reconciliations.WithLabelValues("failed").Inc()
			return err
		}
	}
	if len(delta.ToRemove) > 0 {
		if err := s.dir.RemoveRealmRoles(ctx, userID, delta.ToRemove); err != nil {
			err = directoryError(err)
			logAudit("error", err, map[string]string{"stage": "remove"})
			metrics.Reconciliations.WithLabelValues("failed").Inc()
			return err
		}
	}

	result := "applied"
	if delta.Empty() {
		result = "noop"
	}
	metrics.Reconciliations.WithLabelValues(result).Inc()
	logAudit("success", nil, map[string]string{
		"old_roles": strings.Join(delta.OldRoles, ","),
		"new_roles": strings.Join(delta.NewRoles, ","),
	})
	return nil
}

// validateRequested trims and dedupes names; any name outside the role set is rejected.
func (s *Service) validateRequested(requested []string) ([]string, error) {
	out := make([]string, 0, len(requested))
	for _, r := range requested {
		name := strings.TrimSpace(r)
		if !s.roles.Contains(name) {
			return nil, domain.ErrInvalidRole(name)
		}
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out, nil
}

// AllowedRoles returns the user's current roles restricted to the assignable set.
func (s *Service) AllowedRoles(ctx context.Context, userID string) ([]string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrMissingField("user_id")
	}
	current, err := s.dir.GetUserRealmRoles(ctx, userID)
	if err != nil {
		return nil, directoryError(err)
	}
	names := make([]string, 0, len(current))
	for _, r := range current {
		names = append(names, r.Name)
	}
	return s.roles.Filter(names), nil
}

// AssignableRoles returns the sorted role set.
func (s *Service) AssignableRoles() []string {
	return s.roles.Names()
}

// allowedRolesSafe never fails: a lookup error yields no roles.
func (s *Service) allowedRolesSafe(ctx context.Context, userID string) []string {
	roles, err := s.AllowedRoles(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("role_lookup_failed")
		return []string{}
	}
	return roles
}

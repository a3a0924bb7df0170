package admin

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/recrutment/hireai/services/gateway/internal/domain"
)

const (
	DefaultListMax  = 20
	MaxListMax      = 100
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// ListUsers returns one window of users, each carrying its assignable roles.
// Role lookups run one user at a time; a failed lookup leaves that user's roles empty.
func (s *Service) ListUsers(ctx context.Context, first, max int, search string) ([]domain.User, error) {
	if first < 0 {
		first = 0
	}
	if max <= 0 {
		max = DefaultListMax
	}
	if max > MaxListMax {
		max = MaxListMax
	}

	users, err := s.dir.ListUsers(ctx, first, max, strings.TrimSpace(search))
	if err != nil {
		return nil, directoryError(err)
	}
	return s.withRoles(ctx, users), nil
}

// ListUsersPaged fetches the page and the total count concurrently.
// page is clamped to >= 0 and size to 1..50.
func (s *Service) ListUsersPaged(ctx context.Context, page, size int, search string) (domain.UserPage, error) {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 1
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	search = strings.TrimSpace(search)

	var (
		users []domain.User
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.dir.ListUsers(gctx, page*size, size, search)
		users = u
		return err
	})
	g.Go(func() error {
		n, err := s.dir.CountUsers(gctx, search)
		total = n
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.UserPage{}, directoryError(err)
	}

	return domain.UserPage{
		Content:       s.withRoles(ctx, users),
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    int((total + int64(size) - 1) / int64(size)),
	}, nil
}

// GetProfile loads the user and its roles concurrently. Only the user lookup can fail.
func (s *Service) GetProfile(ctx context.Context, userID string) (domain.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.User{}, domain.ErrMissingField("user_id")
	}

	var (
		user  domain.User
		roles []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.dir.GetUser(gctx, userID)
		user = u
		return err
	})
	g.Go(func() error {
		roles = s.allowedRolesSafe(gctx, userID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.User{}, directoryError(err)
	}

	user.Roles = roles
	return user, nil
}

func (s *Service) withRoles(ctx context.Context, users []domain.User) []domain.User {
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		u.Roles = s.allowedRolesSafe(ctx, u.ID)
		out = append(out, u)
	}
	return out
}

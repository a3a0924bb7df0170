package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recrutment/hireai/services/job-service/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestRepo_CreateGetUpdate(t *testing.T) {
	t.Parallel()

	repo := New()
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.Job{
		Title:        "Engineer",
		MinSalary:    intPtr(10),
		Requirements: []domain.Requirement{{Category: "SKILL", Description: "Go"}},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	require.Len(t, created.Requirements, 1)
	assert.NotEqual(t, uuid.Nil, created.Requirements[0].ID)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	got.Title = "Senior Engineer"
	got.Requirements = nil
	updated, err := repo.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer", updated.Title)
	assert.Empty(t, updated.Requirements)
}

func TestRepo_ReturnsDetachedCopies(t *testing.T) {
	t.Parallel()

	repo := New()
	ctx := context.Background()
	created, err := repo.Create(ctx, domain.Job{Title: "Engineer", MinSalary: intPtr(10)})
	require.NoError(t, err)

	*created.MinSalary = 99
	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, *got.MinSalary)
}

func TestRepo_NotFound(t *testing.T) {
	t.Parallel()

	repo := New()
	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrJobNotFound)

	_, err = repo.Update(context.Background(), domain.Job{ID: uuid.New(), Title: "x"})
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestRepo_DuplicateID(t *testing.T) {
	t.Parallel()

	repo := New()
	id := uuid.New()
	_, err := repo.Create(context.Background(), domain.Job{ID: id, Title: "a"})
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), domain.Job{ID: id, Title: "b"})
	assert.Error(t, err)
}

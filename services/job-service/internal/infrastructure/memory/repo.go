// Package memory is the process-local JobRepo used until job offers get a
// durable store. Stored jobs are deep-copied in both directions.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/recrutment/hireai/services/job-service/internal/domain"
)

type Repo struct {
	mu    sync.RWMutex
	jobs  map[uuid.UUID]domain.Job
	newID func() uuid.UUID
}

func New() *Repo {
	return &Repo{jobs: map[uuid.UUID]domain.Job{}, newID: uuid.New}
}

func (r *Repo) Create(ctx context.Context, j domain.Job) (domain.Job, error) {
	if err := ctx.Err(); err != nil {
		return domain.Job{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if j.ID == uuid.Nil {
		j.ID = r.newID()
	}
	if _, ok := r.jobs[j.ID]; ok {
		return domain.Job{}, fmt.Errorf("job %s already exists", j.ID)
	}
	j = r.stored(j)
	r.jobs[j.ID] = j
	return clone(j), nil
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (domain.Job, error) {
	if err := ctx.Err(); err != nil {
		return domain.Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[id]
	if !ok {
		return domain.Job{}, domain.ErrJobNotFound
	}
	return clone(j), nil
}

func (r *Repo) Update(ctx context.Context, j domain.Job) (domain.Job, error) {
	if err := ctx.Err(); err != nil {
		return domain.Job{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[j.ID]; !ok {
		return domain.Job{}, domain.ErrJobNotFound
	}
	j = r.stored(j)
	r.jobs[j.ID] = j
	return clone(j), nil
}

// stored assigns ids to new requirements and detaches j from the caller.
func (r *Repo) stored(j domain.Job) domain.Job {
	j = clone(j)
	for i := range j.Requirements {
		if j.Requirements[i].ID == uuid.Nil {
			j.Requirements[i].ID = r.newID()
		}
	}
	return j
}

func clone(j domain.Job) domain.Job {
	j.MinSalary = clonePtr(j.MinSalary)
	j.MaxSalary = clonePtr(j.MaxSalary)
	j.Requirements = slices.Clone(j.Requirements)
	for i := range j.Requirements {
		req := &j.Requirements[i]
		req.Weight = clonePtr(req.Weight)
		req.MinYears = clonePtr(req.MinYears)
		req.MaxYears = clonePtr(req.MaxYears)
	}
	return j
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

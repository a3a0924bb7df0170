package job

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/recrutment/hireai/internal/contracts/audit"
	"github.com/recrutment/hireai/services/job-service/internal/domain"
)

func TestDiff(t *testing.T) {
	t.Parallel()

	base := domain.Job{Title: "A", MinSalary: intPtr(10)}

	tests := []struct {
		name  string
		after domain.Job
		want  map[string]any
	}{
		{name: "identical", after: domain.Job{Title: "A", MinSalary: intPtr(10)}, want: nil},
		{
			name:  "salary cleared",
			after: domain.Job{Title: "A"},
			want:  map[string]any{"minSalary": audit.Change{Old: 10, New: nil}},
		},
		{
			name:  "employment type set",
			after: domain.Job{Title: "A", MinSalary: intPtr(10), EmploymentType: domain.EmploymentContract},
			want:  map[string]any{"employmentType": audit.Change{Old: nil, New: "CONTRACT"}},
		},
		{
			name: "requirements ignored",
			after: domain.Job{Title: "A", MinSalary: intPtr(10), Requirements: []domain.Requirement{
				{Category: "SKILL"},
			}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Diff(base, tt.after))
		})
	}
}

package job

import (
	"github.com/recrutment/hireai/internal/contracts/audit"
	"github.com/recrutment/hireai/services/job-service/internal/domain"
)

// Diff returns one {old,new} entry per changed audited field, or nil when
// nothing changed. Requirements are not audited.
func Diff(before, after domain.Job) map[string]any {
	changes := map[string]any{}
	put := func(field string, old, new any) {
		if old != new {
			changes[field] = audit.Change{Old: old, New: new}
		}
	}

	put("title", before.Title, after.Title)
	put("description", before.Description, after.Description)
	put("location", before.Location, after.Location)
	put("minSalary", intOrNil(before.MinSalary), intOrNil(after.MinSalary))
	put("maxSalary", intOrNil(before.MaxSalary), intOrNil(after.MaxSalary))
	put("employmentType", enumOrNil(string(before.EmploymentType)), enumOrNil(string(after.EmploymentType)))
	put("jobStatus", enumOrNil(string(before.JobStatus)), enumOrNil(string(after.JobStatus)))

	if len(changes) == 0 {
		return nil
	}
	return changes
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func enumOrNil(v string) any {
	if v == "" {
		return nil
	}
	return v
}

package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "FULL_TIME"
	EmploymentPartTime EmploymentType = "PART_TIME"
	EmploymentContract EmploymentType = "CONTRACT"
)

type JobStatus string

const (
	JobStatusDraft     JobStatus = "DRAFT"
	JobStatusPublished JobStatus = "PUBLISHED"
	JobStatusClosed    JobStatus = "CLOSED"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrInvalidJob  = errors.New("invalid job")
)

// Job is a job offer. Salaries are optional.
type Job struct {
	ID             uuid.UUID
	Title          string
	Description    string
	Location       string
	MinSalary      *int
	MaxSalary      *int
	EmploymentType EmploymentType
	JobStatus      JobStatus
	Requirements   []Requirement
}

type Requirement struct {
	ID          uuid.UUID
	Category    string
	Description string
	Weight      *float64
	MinYears    *int
	MaxYears    *int
}

// Validate checks the fields a job cannot be stored without.
func (j Job) Validate() error {
	var errs []error
	if strings.TrimSpace(j.Title) == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if j.MinSalary != nil && j.MaxSalary != nil && *j.MinSalary > *j.MaxSalary {
		errs = append(errs, errors.New("minSalary exceeds maxSalary"))
	}
	for i, r := range j.Requirements {
		if r.MinYears != nil && r.MaxYears != nil && *r.MinYears > *r.MaxYears {
			errs = append(errs, fmt.Errorf("requirements[%d]: minYears exceeds maxYears", i))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalidJob}, errs...)...)
}

package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/recrutment/hireai/services/job-service/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError reports the first request field that failed validation.
type FieldError struct {
	Field string
	Rule  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Rule)
}

type RequirementRequest struct {
	Category    string   `json:"category" validate:"required,max=64"`
	Description string   `json:"description" validate:"max=2000"`
	Weight      *float64 `json:"weight" validate:"omitempty,gte=0"`
	MinYears    *int     `json:"minYears" validate:"omitempty,gte=0"`
	MaxYears    *int     `json:"maxYears" validate:"omitempty,gte=0"`
}

// JobRequest is the body of create and update. Reason is only read on update.
type JobRequest struct {
	Title          string               `json:"title" validate:"required,max=255"`
	Description    string               `json:"description" validate:"max=10000"`
	Location       string               `json:"location" validate:"max=255"`
	MinSalary      *int                 `json:"minSalary" validate:"omitempty,gte=0"`
	MaxSalary      *int                 `json:"maxSalary" validate:"omitempty,gte=0"`
	EmploymentType string               `json:"employmentType" validate:"omitempty,oneof=FULL_TIME PART_TIME CONTRACT"`
	JobStatus      string               `json:"jobStatus" validate:"omitempty,oneof=DRAFT PUBLISHED CLOSED"`
	Requirements   []RequirementRequest `json:"requirements" validate:"max=50,dive"`
	Reason         string               `json:"reason" validate:"max=500"`
}

// Validate runs struct tags and returns the first failure as a *FieldError
// with a JSON path such as "requirements[0].category".
func (r JobRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		return &FieldError{Field: ns, Rule: fe.Tag()}
	}
	return err
}

func (r JobRequest) ToDomain() domain.Job {
	j := domain.Job{
		Title:          strings.TrimSpace(r.Title),
		Description:    r.Description,
		Location:       strings.TrimSpace(r.Location),
		MinSalary:      r.MinSalary,
		MaxSalary:      r.MaxSalary,
		EmploymentType: domain.EmploymentType(r.EmploymentType),
		JobStatus:      domain.JobStatus(r.JobStatus),
		Requirements:   make([]domain.Requirement, 0, len(r.Requirements)),
	}
	if j.JobStatus == "" {
		j.JobStatus = domain.JobStatusDraft
	}
	for _, req := range r.Requirements {
		j.Requirements = append(j.Requirements, domain.Requirement{
			Category:    req.Category,
			Description: req.Description,
			Weight:      req.Weight,
			MinYears:    req.MinYears,
			MaxYears:    req.MaxYears,
		})
	}
	return j
}

type RequirementResponse struct {
	ID          uuid.UUID `json:"id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Weight      *float64  `json:"weight"`
	MinYears    *int      `json:"minYears"`
	MaxYears    *int      `json:"maxYears"`
}

type JobResponse struct {
	ID             uuid.UUID             `json:"id"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Location       string                `json:"location"`
	MinSalary      *int                  `json:"minSalary"`
	MaxSalary      *int                  `json:"maxSalary"`
	EmploymentType string                `json:"employmentType,omitempty"`
	JobStatus      string                `json:"jobStatus,omitempty"`
	Requirements   []RequirementResponse `json:"requirements"`
}

func FromDomain(j domain.Job) JobResponse {
	out := JobResponse{
		ID:             j.ID,
		Title:          j.Title,
		Description:    j.Description,
		Location:       j.Location,
		MinSalary:      j.MinSalary,
		MaxSalary:      j.MaxSalary,
		EmploymentType: string(j.EmploymentType),
		JobStatus:      string(j.JobStatus),
		Requirements:   make([]RequirementResponse, 0, len(j.Requirements)),
	}
	for _, r := range j.Requirements {
		out.Requirements = append(out.Requirements, RequirementResponse{
			ID:          r.ID,
			Category:    r.Category,
			Description: r.Description,
			Weight:      r.Weight,
			MinYears:    r.MinYears,
			MaxYears:    r.MaxYears,
		})
	}
	return out
}

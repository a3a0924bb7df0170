package dto

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/recrutment/hireai/services/gateway/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// UpdateRolesRequest replaces the user's assignable roles. A null or missing
// roles list means "no assignable roles".
type UpdateRolesRequest struct {
	Roles  []string `json:"roles" validate:"max=16,dive,max=64"`
	Reason string   `json:"reason" validate:"max=500"`
}

// ReasonRequest is the optional body of block, unblock and delete.
type ReasonRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type RolesResponse struct {
	Roles []string `json:"roles"`
}

// Validate runs struct tags and maps the first failure onto invalid_field.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.ErrInvalidField(jsonField(fe.Namespace()), fe.Tag())
	}
	return domain.ErrInternal(err)
}

// jsonField turns "UpdateRolesRequest.Roles[2]" into "roles[2]".
func jsonField(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	if ns == "" {
		return ns
	}
	return strings.ToLower(ns[:1]) + ns[1:]
}

// IntQuery parses an optional integer query parameter.
func IntQuery(raw, field string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidField(field, "must be an integer")
	}
	return n, nil
}

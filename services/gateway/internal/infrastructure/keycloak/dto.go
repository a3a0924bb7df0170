package keycloak

import "github.com/recrutment/hireai/services/gateway/internal/domain"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type userRepresentation struct {
	ID               string              `json:"id"`
	Username         string              `json:"username"`
	FirstName        string              `json:"firstName"`
	LastName         string              `json:"lastName"`
	Email            string              `json:"email"`
	Enabled          bool                `json:"enabled"`
	CreatedTimestamp int64               `json:"createdTimestamp"`
	Attributes       map[string][]string `json:"attributes"`
}

func (u userRepresentation) toDomain() domain.User {
	return domain.User{
		ID:               u.ID,
		Username:         u.Username,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Email:            u.Email,
		Enabled:          u.Enabled,
		CreatedTimestamp: u.CreatedTimestamp,
		Attributes:       u.Attributes,
		Roles:            []string{},
	}
}

// userUpdate is a partial user representation; the directory merges it into the stored user.
type userUpdate struct {
	Enabled *bool `json:"enabled,omitempty"`
}

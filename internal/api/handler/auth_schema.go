package handler

import (
	"github.com/landinvestpro/marketplace-gateway/internal/core/domain"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	// Role is the role tile selected on the login form; optional. When set
	// it must be among the account's server-assigned roles.
	Role string `json:"role,omitempty"`
}

type registerRequest struct {
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required,min=8"`
	FirstName string   `json:"first_name" validate:"required"`
	LastName  string   `json:"last_name" validate:"required"`
	Roles     []string `json:"roles" validate:"required,min=1"`
}

type authResponse struct {
	User      *domain.User `json:"user"`
	ExpiresAt string       `json:"expires_at,omitempty"`
}

type profileUpdateRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

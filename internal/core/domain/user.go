package domain

import "time"

// Role is an opaque permission tag assigned by the marketplace backend.
// The vocabulary is fixed; the gateway never invents roles on its own.
type Role string

const (
	RoleLandowner      Role = "landowner"
	RoleInvestor       Role = "investor"
	RoleAdministrator  Role = "administrator"
	RoleAnalyst        Role = "re_analyst"
	RoleSalesAdvisor   Role = "re_sales_advisor"
	RoleGovernanceLead Role = "re_governance_lead"
	RoleProjectManager Role = "project_manager"

	// Coarse tags the backend may assign alongside the concrete roles.
	RoleOwner    Role = "owner"
	RoleReviewer Role = "reviewer"
)

// KnownRoles returns the full role vocabulary in a stable order.
func KnownRoles() []Role {
	return []Role{
		RoleLandowner,
		RoleInvestor,
		RoleAdministrator,
		RoleAnalyst,
		RoleSalesAdvisor,
		RoleGovernanceLead,
		RoleProjectManager,
		RoleOwner,
		RoleReviewer,
	}
}

// IsKnownRole reports whether r is part of the fixed vocabulary.
func IsKnownRole(r Role) bool {
	for _, known := range KnownRoles() {
		if r == known {
			return true
		}
	}
	return false
}

// User models the identity record cached from the marketplace backend.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Roles     []Role    `json:"roles"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// HasRole reports raw role membership, without the administrator override.
// Access decisions go through Session predicates or the policy package.
func (u User) HasRole(r Role) bool {
	for _, have := range u.Roles {
		if have == r {
			return true
		}
	}
	return false
}

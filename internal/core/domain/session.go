package domain

import "time"

// Session is the gateway-side record of an authenticated browser session:
// the upstream bearer token plus the cached user, never one without the
// other. ID is an opaque identifier carried in the session cookie.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry.
func (s Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// IsAdmin reports whether the session belongs to an administrator.
func (s Session) IsAdmin() bool {
	return s.User.HasRole(RoleAdministrator)
}

// HasRole reports whether the session satisfies the given role.
// Administrators satisfy every role check by design.
func (s Session) HasRole(r Role) bool {
	return s.IsAdmin() || s.User.HasRole(r)
}

// HasAnyRole reports whether the session satisfies at least one of the
// given roles. An empty list is satisfied by any authenticated session.
func (s Session) HasAnyRole(roles ...Role) bool {
	if len(roles) == 0 {
		return true
	}
	if s.IsAdmin() {
		return true
	}
	for _, r := range roles {
		if s.User.HasRole(r) {
			return true
		}
	}
	return false
}

// IsOwner covers both the coarse owner tag and the concrete landowner role.
func (s Session) IsOwner() bool {
	return s.HasAnyRole(RoleOwner, RoleLandowner)
}

// IsReviewer covers the coarse reviewer tag and the governance lead role.
func (s Session) IsReviewer() bool {
	return s.HasAnyRole(RoleReviewer, RoleGovernanceLead)
}

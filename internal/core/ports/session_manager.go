package ports

import (
	"context"

	"github.com/landinvestpro/marketplace-gateway/internal/core/domain"
)

// LoginInput carries the credentials entered on the login form. Role is the
// optional role the user selected; when set it must match one of the roles
// the backend assigned, otherwise login fails with domain.ErrRoleMismatch.
type LoginInput struct {
	Email    string
	Password string
	Role     domain.Role
}

// UserPatch carries a partial user update; nil fields are left untouched.
type UserPatch struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// SessionManager is the source of truth for session lifecycle. All role
// checks elsewhere derive from the Session values it returns; no other
// component touches the credential store directly.
type SessionManager interface {
	// Hydrate resolves a session ID to its session, or
	// domain.ErrSessionNotFound when nothing is cached for it.
	Hydrate(ctx context.Context, sessionID string) (*domain.Session, error)
	// Login exchanges credentials with the backend and establishes a new
	// session. On failure the prior state is untouched.
	Login(ctx context.Context, in LoginInput) (*domain.Session, error)
	// Register creates a new account with the backend. No session is
	// established; the user logs in afterwards.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Logout clears the session. Idempotent: logging out an absent or
	// already-cleared session is a no-op.
	Logout(ctx context.Context, sessionID string) error
	// ForceLogout is the reaction to an upstream authentication failure.
	// Concurrent calls for the same session collapse into one clear.
	ForceLogout(ctx context.Context, sessionID string) error
	// UpdateUser merges the patch into the cached user and re-persists it.
	// A session cleared in the meantime is not resurrected; the call fails
	// with domain.ErrSessionExpired.
	UpdateUser(ctx context.Context, sessionID string, patch UserPatch) (*domain.User, error)
}

package ports

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/landinvestpro/marketplace-gateway/internal/core/domain"
)

// UpstreamError carries a non-2xx backend response through to the caller.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Body)
}

// TokenGrant is the result of a successful credential exchange.
type TokenGrant struct {
	AccessToken string      `json:"access_token"`
	User        domain.User `json:"user"`
}

// RegisterInput carries a new account registration to the backend.
type RegisterInput struct {
	Email     string        `json:"email"`
	Password  string        `json:"password"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Roles     []domain.Role `json:"roles"`
}

// ProfileUpdate carries the mutable profile fields. Roles are not among
// them; role assignment is the backend's business.
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// BackendClient is the single surface for calls to the marketplace REST
// backend. Authenticated calls take the session ID and bearer token; a 401
// from any of them triggers the forced-logout hook exactly once per session
// and surfaces domain.ErrSessionExpired to the caller. Domain payloads the
// gateway merely relays are passed through as raw JSON.
type BackendClient interface {
	ExchangeToken(ctx context.Context, email, password string) (*TokenGrant, error)
	RegisterAccount(ctx context.Context, in RegisterInput) (*domain.User, error)

	GetProfile(ctx context.Context, sessionID, token string) (*domain.User, error)
	UpdateProfile(ctx context.Context, sessionID, token string, in ProfileUpdate) (*domain.User, error)

	ListLands(ctx context.Context, sessionID, token string, query url.Values) (json.RawMessage, error)
	ListDocuments(ctx context.Context, sessionID, token string, query url.Values) (json.RawMessage, error)
	ListUsers(ctx context.Context, sessionID, token string, query url.Values) (json.RawMessage, error)

	// Health reports backend reachability for the readiness probe.
	Health(ctx context.Context) error
}

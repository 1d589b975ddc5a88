package ports

import (
	"context"
	"time"

	"github.com/landinvestpro/marketplace-gateway/internal/core/domain"
)

// Credentials is the persisted pair for one browser session. TTL is the
// remaining lifetime reported by the store at load time.
type Credentials struct {
	Token string
	User  domain.User
	TTL   time.Duration
}

// CredentialStore is the durable cache for the bearer token and the
// last-known user record of each session. It performs no network calls to
// the backend and no token validation; it is a dumb cache.
type CredentialStore interface {
	// Save writes token and user under the session ID, atomically from the
	// caller's perspective, with the given lifetime.
	Save(ctx context.Context, sessionID, token string, user domain.User, ttl time.Duration) error
	// Load returns the stored pair, or nil when absent. Corrupt entries are
	// treated as absent, never as errors.
	Load(ctx context.Context, sessionID string) (*Credentials, error)
	// Update rewrites the pair only while it still exists, so a concurrent
	// Clear always wins. Returns false when the session is gone; nothing is
	// created in that case.
	Update(ctx context.Context, sessionID, token string, user domain.User, ttl time.Duration) (bool, error)
	// Clear removes both entries. Clearing an absent session is a no-op.
	Clear(ctx context.Context, sessionID string) error
}

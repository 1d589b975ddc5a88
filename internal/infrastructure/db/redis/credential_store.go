package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/landinvestpro/marketplace-gateway/internal/core/domain"
	"github.com/landinvestpro/marketplace-gateway/internal/core/ports"
)

// CredentialStore persists the bearer token and cached user record per
// session. Two keys per session:
//
//	cred:<session_id>:token  – the raw bearer token
//	cred:<session_id>:user   – the user record as JSON
//
// Both are written in one MULTI/EXEC pipeline so a reader never observes a
// half-written pair, and both expire together.
type CredentialStore struct {
	client *redis.Client
	prefix string
}

// NewCredentialStore wraps the given Redis client.
func NewCredentialStore(client *redis.Client) *CredentialStore {
	return &CredentialStore{client: client, prefix: "cred:"}
}

func (s *CredentialStore) tokenKey(sid string) string {
	return fmt.Sprintf("%s%s:token", s.prefix, sid)
}

func (s *CredentialStore) userKey(sid string) string {
	return fmt.Sprintf("%s%s:user", s.prefix, sid)
}

// Save writes the token and user under the session ID with the given TTL.
func (s *CredentialStore) Save(ctx context.Context, sessionID, token string, user domain.User, ttl time.Duration) error {
	if sessionID == "" {
		return fmt.Errorf("credential store: empty session id")
	}
	if ttl <= 0 {
		return fmt.Errorf("credential store: non-positive ttl")
	}

	blob, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("credential store: marshal user: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.tokenKey(sessionID), token, ttl)
	pipe.Set(ctx, s.userKey(sessionID), blob, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("credential store: save: %w", err)
	}
	return nil
}

// Load returns the stored pair, or nil when either half is absent or the
// user blob does not decode. A mismatched or corrupt pair is cleared and
// reported as absent rather than surfaced as an error.
func (s *CredentialStore) Load(ctx context.Context, sessionID string) (*ports.Credentials, error) {
	if sessionID == "" {
		return nil, nil
	}

	token, err := s.client.Get(ctx, s.tokenKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("credential store: get token: %w", err)
	}

	blob, err := s.client.Get(ctx, s.userKey(sessionID)).Result()
	if err == redis.Nil {
		// Half-written pair; clean up so the session reads as absent.
		_ = s.Clear(ctx, sessionID)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("credential store: get user: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal([]byte(blob), &user); err != nil {
		_ = s.Clear(ctx, sessionID)
		return nil, nil
	}

	ttl, err := s.client.PTTL(ctx, s.tokenKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("credential store: ttl: %w", err)
	}
	if ttl < 0 {
		ttl = 0
	}

	return &ports.Credentials{Token: token, User: user, TTL: ttl}, nil
}

// Update rewrites both entries with SET XX so the write lands only on keys
// that still exist. A logout racing in between leaves nothing behind for XX
// to hit, so the cleared session stays cleared. A pair that went
// inconsistent under the update is removed and reported as gone.
func (s *CredentialStore) Update(ctx context.Context, sessionID, token string, user domain.User, ttl time.Duration) (bool, error) {
	if sessionID == "" {
		return false, fmt.Errorf("credential store: empty session id")
	}
	if ttl <= 0 {
		return false, fmt.Errorf("credential store: non-positive ttl")
	}

	blob, err := json.Marshal(user)
	if err != nil {
		return false, fmt.Errorf("credential store: marshal user: %w", err)
	}

	pipe := s.client.TxPipeline()
	tokenSet := pipe.SetXX(ctx, s.tokenKey(sessionID), token, ttl)
	userSet := pipe.SetXX(ctx, s.userKey(sessionID), blob, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("credential store: update: %w", err)
	}

	if !tokenSet.Val() || !userSet.Val() {
		_ = s.Clear(ctx, sessionID)
		return false, nil
	}
	return true, nil
}

// Clear removes both entries. Deleting absent keys is a no-op in Redis, so
// Clear is naturally idempotent.
func (s *CredentialStore) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.tokenKey(sessionID), s.userKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("credential store: clear: %w", err)
	}
	return nil
}

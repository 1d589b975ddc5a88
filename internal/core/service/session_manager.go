package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/landinvestpro/marketplace-gateway/internal/pkg/metrics"
	"github.com/landinvestpro/marketplace-gateway/internal/core/domain"
	"github.com/landinvestpro/marketplace-gateway/internal/core/ports"
)

// SessionManager owns the session lifecycle: it is the only component that
// reads or writes the credential store, and every Session value handed out
// elsewhere originates here.
type SessionManager struct {
	store      ports.CredentialStore
	backend    ports.BackendClient
	sessionTTL time.Duration
	log        zerolog.Logger

	// forced collapses concurrent forced logouts for one session into a
	// single store clear.
	forced singleflight.Group
}

const defaultSessionTTL = 24 * time.Hour

// NewSessionManager constructs a SessionManager. A non-positive TTL falls
// back to 24h, matching the backend's token lifetime.
func NewSessionManager(store ports.CredentialStore, client ports.BackendClient, sessionTTL time.Duration, log zerolog.Logger) *SessionManager {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &SessionManager{
		store:      store,
		backend:    client,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

// Hydrate resolves a session ID against the credential store.
func (m *SessionManager) Hydrate(ctx context.Context, sessionID string) (*domain.Session, error) {
	creds, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("hydrate session: %w", err)
	}
	if creds == nil {
		return nil, domain.ErrSessionNotFound
	}
	return &domain.Session{
		ID:        sessionID,
		Token:     creds.Token,
		User:      creds.User,
		ExpiresAt: time.Now().Add(creds.TTL),
	}, nil
}

// Login exchanges credentials with the backend and establishes a session.
// On any failure nothing is persisted and the prior state stands.
func (m *SessionManager) Login(ctx context.Context, in ports.LoginInput) (*domain.Session, error) {
	grant, err := m.backend.ExchangeToken(ctx, in.Email, in.Password)
	if err != nil {
		mapped := mapExchangeError(err)
		metrics.LoginsTotal.WithLabelValues(loginResult(mapped)).Inc()
		return nil, mapped
	}

	if in.Role != "" && !grant.User.HasRole(in.Role) && !grant.User.HasRole(domain.RoleAdministrator) {
		metrics.LoginsTotal.WithLabelValues("role_mismatch").Inc()
		return nil, domain.ErrRoleMismatch
	}

	ttl := m.sessionTTL
	if tokenTTL, ok := tokenLifetime(grant.AccessToken); ok && tokenTTL < ttl {
		ttl = tokenTTL
	}
	if ttl <= 0 {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrAuthFailure
	}

	sessionID := uuid.NewString()
	if err := m.store.Save(ctx, sessionID, grant.AccessToken, grant.User, ttl); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("persist session: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	m.log.Info().
		Str("session_id", sessionID).
		Str("user_id", grant.User.ID).
		Msg("session established")

	return &domain.Session{
		ID:        sessionID,
		Token:     grant.AccessToken,
		User:      grant.User,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// Register relays an account registration. No session is established.
func (m *SessionManager) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	for _, r := range in.Roles {
		if !domain.IsKnownRole(r) {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrAuthFailure, r)
		}
	}
	user, err := m.backend.RegisterAccount(ctx, in)
	if err != nil {
		var ue *ports.UpstreamError
		if errors.As(err, &ue) {
			switch ue.Status {
			case http.StatusConflict:
				return nil, domain.ErrAccountExists
			case http.StatusBadRequest, http.StatusUnprocessableEntity:
				return nil, fmt.Errorf("%w: %s", domain.ErrAuthFailure, ue.Body)
			}
		}
		return nil, err
	}
	return user, nil
}

// Logout clears the session. Clearing an absent session is a no-op, so
// calling Logout twice, or concurrently from two triggers, is safe.
func (m *SessionManager) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := m.store.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// ForceLogout clears a session in reaction to an upstream authentication
// failure. Concurrent in-flight requests failing for the same session
// collapse into a single clear via singleflight.
func (m *SessionManager) ForceLogout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	_, err, _ := m.forced.Do(sessionID, func() (any, error) {
		if err := m.store.Clear(ctx, sessionID); err != nil {
			return nil, err
		}
		metrics.ForcedLogoutsTotal.Inc()
		m.log.Warn().Str("session_id", sessionID).Msg("session force-cleared after upstream 401")
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("forced logout: %w", err)
	}
	return nil
}

// UpdateUser merges the patch into the cached user record and re-persists
// it with the session's remaining lifetime. The write is conditional on the
// session still existing, so a logout racing between the load and the write
// wins: the call fails with domain.ErrSessionExpired and the cleared session
// stays cleared.
func (m *SessionManager) UpdateUser(ctx context.Context, sessionID string, patch ports.UserPatch) (*domain.User, error) {
	creds, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if creds == nil {
		return nil, domain.ErrSessionExpired
	}

	user := creds.User
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}

	if creds.TTL <= 0 {
		return nil, domain.ErrSessionExpired
	}
	ok, err := m.store.Update(ctx, sessionID, creds.Token, user, creds.TTL)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if !ok {
		return nil, domain.ErrSessionExpired
	}
	return &user, nil
}

// mapExchangeError translates token-exchange failures into the taxonomy.
func mapExchangeError(err error) error {
	var ue *ports.UpstreamError
	if errors.As(err, &ue) {
		switch ue.Status {
		case http.StatusUnauthorized, http.StatusBadRequest:
			return domain.ErrInvalidCredentials
		case http.StatusNotFound:
			return domain.ErrAccountNotFound
		}
		return fmt.Errorf("%w: %s", domain.ErrAuthFailure, ue.Body)
	}
	if errors.Is(err, domain.ErrUpstreamUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrAuthFailure, err)
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrRoleMismatch):
		return "role_mismatch"
	default:
		return "failure"
	}
}

// tokenLifetime reads the exp claim of the upstream token without verifying
// the signature. Verification is the backend's job; the gateway only uses
// exp to avoid caching credentials past their lifetime.
func tokenLifetime(token string) (time.Duration, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return 0, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, false
	}
	return time.Until(exp.Time), true
}

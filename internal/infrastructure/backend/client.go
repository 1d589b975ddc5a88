// Package backend implements the single HTTP-calling surface for the
// marketplace REST backend. Every authenticated call attaches the session's
// bearer token; a 401 from any of them fires the forced-logout hook and
// surfaces domain.ErrSessionExpired. Calls made before a session exists
// (token exchange, registration) never fire the hook, so a failed login
// cannot log anyone out.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/landinvestpro/marketplace-gateway/internal/pkg/metrics"
	"github.com/landinvestpro/marketplace-gateway/internal/core/domain"
	"github.com/landinvestpro/marketplace-gateway/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// ForcedLogoutHook is invoked when an authenticated call receives a 401.
// The session manager deduplicates concurrent invocations per session.
type ForcedLogoutHook func(ctx context.Context, sessionID string)

// Client talks to the marketplace backend. It implements ports.BackendClient.
type Client struct {
	baseURL string
	http    *http.Client
	onAuth  ForcedLogoutHook
	log     zerolog.Logger
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// New creates a Client. The forced-logout hook is wired separately via
// SetForcedLogoutHook because the session manager and the client reference
// each other.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     opts.Logger,
	}
}

// SetForcedLogoutHook installs the reaction to upstream 401s.
func (c *Client) SetForcedLogoutHook(hook ForcedLogoutHook) {
	c.onAuth = hook
}

// call performs one backend request. sessionID and token are empty for
// unauthenticated calls. out, when non-nil, receives the decoded JSON body.
func (c *Client) call(ctx context.Context, endpoint, method, path string, query url.Values, token, sessionID string, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequestDuration.WithLabelValues(endpoint, "error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("backend: %s %s: %w: %w", method, path, domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestDuration.WithLabelValues(endpoint, statusClass(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode == http.StatusUnauthorized && sessionID != "" {
		if c.onAuth != nil {
			c.onAuth(ctx, sessionID)
		}
		return fmt.Errorf("backend: %s %s: %w", method, path, domain.ErrSessionExpired)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("backend: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ports.UpstreamError{Status: resp.StatusCode, Body: upstreamMessage(raw)}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("backend: decode response: %w", err)
		}
	}
	return nil
}

// upstreamMessage extracts the backend's error detail when present.
func upstreamMessage(raw []byte) string {
	var envelope struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Detail != "" {
			return envelope.Detail
		}
	}
	return strings.TrimSpace(string(raw))
}

func statusClass(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "other"
	}
}

// ExchangeToken trades credentials for a bearer token and user record.
// A 401 here means bad credentials, not an expired session; no hook fires.
func (c *Client) ExchangeToken(ctx context.Context, email, password string) (*ports.TokenGrant, error) {
	body := map[string]string{"username": email, "password": password}
	var grant ports.TokenGrant
	if err := c.call(ctx, "exchange_token", http.MethodPost, "/auth/token", nil, "", "", body, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

// RegisterAccount creates a new account with the backend.
func (c *Client) RegisterAccount(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	var user domain.User
	if err := c.call(ctx, "register", http.MethodPost, "/auth/register", nil, "", "", in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProfile reads the current user's profile.
func (c *Client) GetProfile(ctx context.Context, sessionID, token string) (*domain.User, error) {
	var user domain.User
	if err := c.call(ctx, "get_profile", http.MethodGet, "/users/profile", nil, token, sessionID, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile writes profile fields and returns the updated record.
func (c *Client) UpdateProfile(ctx context.Context, sessionID, token string, in ports.ProfileUpdate) (*domain.User, error) {
	var user domain.User
	if err := c.call(ctx, "update_profile", http.MethodPut, "/users/profile", nil, token, sessionID, in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListLands relays the marketplace land listing.
func (c *Client) ListLands(ctx context.Context, sessionID, token string, query url.Values) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.call(ctx, "list_lands", http.MethodGet, "/lands/", query, token, sessionID, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ListDocuments relays the document listing.
func (c *Client) ListDocuments(ctx context.Context, sessionID, token string, query url.Values) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.call(ctx, "list_documents", http.MethodGet, "/documents/", query, token, sessionID, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ListUsers relays the user listing for the admin surface.
func (c *Client) ListUsers(ctx context.Context, sessionID, token string, query url.Values) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.call(ctx, "list_users", http.MethodGet, "/users/", query, token, sessionID, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Health pings the backend's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, "health", http.MethodGet, "/health", nil, "", "", nil, nil)
}

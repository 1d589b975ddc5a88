package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/landinvestpro/marketplace-gateway/internal/core/domain"
	"github.com/landinvestpro/marketplace-gateway/internal/core/ports"
)

// stubStore is an in-memory CredentialStore tracking call counts.
type stubStore struct {
	mu         sync.Mutex
	creds      map[string]ports.Credentials
	saveCalls  int
	clearCalls int
	loadErr    error
	// clearGate, when set, blocks Clear until released; used to overlap
	// concurrent forced logouts.
	clearGate chan struct{}
	// loadStarted/loadHold, when set, pause Load after it has read the
	// entry; used to interleave a logout into an in-flight update.
	loadStarted chan struct{}
	loadHold    chan struct{}
}

func newStubStore() *stubStore {
	return &stubStore{creds: make(map[string]ports.Credentials)}
}

func (s *stubStore) Save(_ context.Context, sid, token string, user domain.User, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	s.creds[sid] = ports.Credentials{Token: token, User: user, TTL: ttl}
	return nil
}

func (s *stubStore) Load(_ context.Context, sid string) (*ports.Credentials, error) {
	s.mu.Lock()
	if s.loadErr != nil {
		s.mu.Unlock()
		return nil, s.loadErr
	}
	c, ok := s.creds[sid]
	s.mu.Unlock()

	if s.loadHold != nil {
		select {
		case s.loadStarted <- struct{}{}:
		default:
		}
		<-s.loadHold
	}

	if !ok {
		return nil, nil
	}
	clone := c
	return &clone, nil
}

func (s *stubStore) Update(_ context.Context, sid, token string, user domain.User, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.creds[sid]; !ok {
		return false, nil
	}
	s.creds[sid] = ports.Credentials{Token: token, User: user, TTL: ttl}
	return true, nil
}

func (s *stubStore) Clear(_ context.Context, sid string) error {
	if s.clearGate != nil {
		<-s.clearGate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearCalls++
	delete(s.creds, sid)
	return nil
}

// stubBackend satisfies ports.BackendClient for the operations the session
// manager touches.
type stubBackend struct {
	grant       *ports.TokenGrant
	exchangeErr error
	registered  *domain.User
	registerErr error
}

func (b *stubBackend) ExchangeToken(context.Context, string, string) (*ports.TokenGrant, error) {
	if b.exchangeErr != nil {
		return nil, b.exchangeErr
	}
	return b.grant, nil
}

func (b *stubBackend) RegisterAccount(context.Context, ports.RegisterInput) (*domain.User, error) {
	if b.registerErr != nil {
		return nil, b.registerErr
	}
	return b.registered, nil
}

func (b *stubBackend) GetProfile(context.Context, string, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (b *stubBackend) UpdateProfile(context.Context, string, string, ports.ProfileUpdate) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (b *stubBackend) ListLands(context.Context, string, string, url.Values) (json.RawMessage, error) {
	return nil, errors.New("not implemented")
}

func (b *stubBackend) ListDocuments(context.Context, string, string, url.Values) (json.RawMessage, error) {
	return nil, errors.New("not implemented")
}

func (b *stubBackend) ListUsers(context.Context, string, string, url.Values) (json.RawMessage, error) {
	return nil, errors.New("not implemented")
}

func (b *stubBackend) Health(context.Context) error { return nil }

func landownerGrant() *ports.TokenGrant {
	return &ports.TokenGrant{
		AccessToken: "upstream-token",
		User: domain.User{
			ID:    "u-1",
			Email: "ana@example.com",
			Roles: []domain.Role{domain.RoleLandowner},
		},
	}
}

func newManager(store *stubStore, backend *stubBackend) *SessionManager {
	return NewSessionManager(store, backend, time.Hour, zerolog.Nop())
}

func TestLogin_Success(t *testing.T) {
	store := newStubStore()
	mgr := newManager(store, &stubBackend{grant: landownerGrant()})

	sess, err := mgr.Login(context.Background(), ports.LoginInput{Email: "ana@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.ID == "" {
		t.Fatalf("expected a session id")
	}
	if sess.Token != "upstream-token" {
		t.Fatalf("token mismatch: %q", sess.Token)
	}
	if store.saveCalls != 1 {
		t.Fatalf("expected one save, got %d", store.saveCalls)
	}
	if time.Until(sess.ExpiresAt) > time.Hour {
		t.Fatalf("expiry beyond configured ttl: %v", sess.ExpiresAt)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	store := newStubStore()
	mgr := newManager(store, &stubBackend{
		exchangeErr: &ports.UpstreamError{Status: 401, Body: "bad password"},
	})

	_, err := mgr.Login(context.Background(), ports.LoginInput{Email: "ana@example.com", Password: "nope"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if store.saveCalls != 0 {
		t.Fatalf("failed login must not persist anything")
	}
}

func TestLogin_AccountNotFound(t *testing.T) {
	mgr := newManager(newStubStore(), &stubBackend{
		exchangeErr: &ports.UpstreamError{Status: 404, Body: "no such account"},
	})
	_, err := mgr.Login(context.Background(), ports.LoginInput{Email: "ghost@example.com", Password: "pw"})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestLogin_RoleMismatch(t *testing.T) {
	store := newStubStore()
	mgr := newManager(store, &stubBackend{grant: landownerGrant()})

	_, err := mgr.Login(context.Background(), ports.LoginInput{
		Email:    "ana@example.com",
		Password: "pw",
		Role:     domain.RoleInvestor,
	})
	if !errors.Is(err, domain.ErrRoleMismatch) {
		t.Fatalf("expected ErrRoleMismatch, got %v", err)
	}
	if store.saveCalls != 0 {
		t.Fatalf("role mismatch must not persist a session")
	}
}

func TestLogin_SelectedRoleMatches(t *testing.T) {
	mgr := newManager(newStubStore(), &stubBackend{grant: landownerGrant()})
	if _, err := mgr.Login(context.Background(), ports.LoginInput{
		Email:    "ana@example.com",
		Password: "pw",
		Role:     domain.RoleLandowner,
	}); err != nil {
		t.Fatalf("matching role should log in: %v", err)
	}
}

func TestHydrate(t *testing.T) {
	store := newStubStore()
	mgr := newManager(store, &stubBackend{grant: landownerGrant()})

	sess, err := mgr.Login(context.Background(), ports.LoginInput{Email: "ana@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	got, err := mgr.Hydrate(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	if got.User.ID != "u-1" || got.Token != "upstream-token" {
		t.Fatalf("unexpected session: %+v", got)
	}

	if _, err := mgr.Hydrate(context.Background(), "unknown-sid"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	store := newStubStore()
	mgr := newManager(store, &stubBackend{grant: landownerGrant()})

	sess, err := mgr.Login(context.Background(), ports.LoginInput{Email: "ana@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := mgr.Logout(context.Background(), sess.ID); err != nil {
		t.Fatalf("first Logout: %v", err)
	}
	if err := mgr.Logout(context.Background(), sess.ID); err != nil {
		t.Fatalf("second Logout must be a no-op, got: %v", err)
	}
	if err := mgr.Logout(context.Background(), ""); err != nil {
		t.Fatalf("Logout with no session must be a no-op, got: %v", err)
	}

	if _, err := mgr.Hydrate(context.Background(), sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("session should be gone after logout")
	}
}

func TestForceLogout_ConcurrentCallsClearOnce(t *testing.T) {
	store := newStubStore()
	store.clearGate = make(chan struct{})
	mgr := newManager(store, &stubBackend{grant: landownerGrant()})

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = mgr.ForceLogout(context.Background(), "sid-x")
		}(i)
	}

	// Let all callers pile up on the in-flight clear, then release it.
	time.Sleep(20 * time.Millisecond)
	close(store.clearGate)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: %v", i, err)
		}
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.clearCalls != 1 {
		t.Fatalf("expected exactly one store clear, got %d", store.clearCalls)
	}
}

func TestUpdateUser_MergesAndPersists(t *testing.T) {
	store := newStubStore()
	mgr := newManager(store, &stubBackend{grant: landownerGrant()})

	sess, err := mgr.Login(context.Background(), ports.LoginInput{Email: "ana@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	first := "Anabel"
	user, err := mgr.UpdateUser(context.Background(), sess.ID, ports.UserPatch{FirstName: &first})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if user.FirstName != "Anabel" {
		t.Fatalf("patch not applied: %+v", user)
	}
	if user.Email != "ana@example.com" {
		t.Fatalf("untouched field changed: %+v", user)
	}

	got, err := mgr.Hydrate(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	if got.User.FirstName != "Anabel" {
		t.Fatalf("update not persisted: %+v", got.User)
	}
}

func TestUpdateUser_AfterLogoutDoesNotResurrect(t *testing.T) {
	store := newStubStore()
	mgr := newManager(store, &stubBackend{grant: landownerGrant()})

	sess, err := mgr.Login(context.Background(), ports.LoginInput{Email: "ana@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := mgr.Logout(context.Background(), sess.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	first := "Anabel"
	if _, err := mgr.UpdateUser(context.Background(), sess.ID, ports.UserPatch{FirstName: &first}); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if _, err := mgr.Hydrate(context.Background(), sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("update must not resurrect a cleared session")
	}
}

func TestUpdateUser_RacingLogoutWins(t *testing.T) {
	store := newStubStore()
	mgr := newManager(store, &stubBackend{grant: landownerGrant()})

	sess, err := mgr.Login(context.Background(), ports.LoginInput{Email: "ana@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Pause the update after it has loaded the session, log out in the
	// window, then let the update proceed.
	store.loadStarted = make(chan struct{}, 1)
	store.loadHold = make(chan struct{})

	result := make(chan error, 1)
	go func() {
		first := "Anabel"
		_, err := mgr.UpdateUser(context.Background(), sess.ID, ports.UserPatch{FirstName: &first})
		result <- err
	}()

	<-store.loadStarted
	if err := mgr.Logout(context.Background(), sess.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	close(store.loadHold)

	if err := <-result; !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if _, err := mgr.Hydrate(context.Background(), sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("interleaved update must not resurrect the logged-out session")
	}
}

func TestRegister_MapsConflict(t *testing.T) {
	mgr := newManager(newStubStore(), &stubBackend{
		registerErr: &ports.UpstreamError{Status: 409, Body: "email already registered"},
	})
	_, err := mgr.Register(context.Background(), ports.RegisterInput{
		Email: "ana@example.com", Password: "longenough", FirstName: "Ana", LastName: "Torres",
		Roles: []domain.Role{domain.RoleLandowner},
	})
	if !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	mgr := newManager(newStubStore(), &stubBackend{registered: &domain.User{ID: "u-2"}})
	_, err := mgr.Register(context.Background(), ports.RegisterInput{
		Email: "b@example.com", Password: "longenough", FirstName: "B", LastName: "C",
		Roles: []domain.Role{"superuser"},
	})
	if err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

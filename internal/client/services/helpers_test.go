package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/meetscribe/internal/client/client"
	"github.com/dmitrijs2005/meetscribe/internal/client/history"
	"github.com/dmitrijs2005/meetscribe/internal/client/models"
	"github.com/dmitrijs2005/meetscribe/internal/client/storage"
	"github.com/dmitrijs2005/meetscribe/internal/client/usage"
	"github.com/dmitrijs2005/meetscribe/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func setupStore(t *testing.T) *storage.Store {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewStore(db, logging.Nop())
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// env is a manager wired to a real store with a controllable clock.
type env struct {
	store   *storage.Store
	history *history.Store
	guest   *usage.Counter
	clock   *fakeClock
	manager *SessionManager
}

func newEnv(t *testing.T, newProvider func(*storage.Store, *fakeClock) SessionProvider) *env {
	t.Helper()
	store := setupStore(t)
	clock := newFakeClock()

	e := &env{
		store:   store,
		history: history.NewStore(store, history.WithClock(clock.Now)),
		guest:   usage.NewCounter(store, storage.KeyUsageCounter, usage.WithClock(clock.Now)),
		clock:   clock,
	}
	e.manager = NewSessionManager(newProvider(store, clock), store, e.history, e.guest, logging.Nop())
	t.Cleanup(func() { _ = e.manager.Close() })
	return e
}

func newLocalProvider(store *storage.Store, clock *fakeClock) *LocalProvider {
	p := NewLocalProvider(store, logging.Nop())
	p.now = clock.Now
	return p
}

func newLocalEnv(t *testing.T) *env {
	t.Helper()
	return newEnv(t, func(store *storage.Store, clock *fakeClock) SessionProvider {
		return newLocalProvider(store, clock)
	})
}

func newRemoteEnv(t *testing.T, fc *fakeAuthClient) (*env, *client.MemoryTokenStore) {
	t.Helper()
	p, tokens := newRemote(fc)
	e := newEnv(t, func(store *storage.Store, clock *fakeClock) SessionProvider {
		p.now = clock.Now
		return p
	})
	return e, tokens
}

func registerInput(email, password string) RegisterInput {
	return RegisterInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           email,
		Password:        []byte(password),
		ConfirmPassword: []byte(password),
	}
}

// ---- fake auth client ----

type fakeAuthClient struct {
	mu sync.Mutex

	RegisterRet *client.AuthResponse
	RegisterErr error
	LoginRet    *client.AuthResponse
	LoginErr    error
	MeRet       *client.AuthResponse
	MeErr       error
	UsageRet    *models.RemoteUsage
	UsageErr    error
	MigrateRet  int
	MigrateErr  error
	LogoutErr   error

	LastRegister    client.RegisterRequest
	LastLogin       client.LoginRequest
	LastMigrate     []models.HistoryItem
	LastLogoutToken string

	MeCalls      int
	UsageCalls   int
	MigrateCalls int
	LogoutCalls  int
}

func (f *fakeAuthClient) Register(ctx context.Context, req client.RegisterRequest) (*client.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastRegister = req
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeAuthClient) Login(ctx context.Context, req client.LoginRequest) (*client.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastLogin = req
	return f.LoginRet, f.LoginErr
}

func (f *fakeAuthClient) Me(ctx context.Context) (*client.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MeCalls++
	return f.MeRet, f.MeErr
}

func (f *fakeAuthClient) Usage(ctx context.Context) (*models.RemoteUsage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UsageCalls++
	return f.UsageRet, f.UsageErr
}

func (f *fakeAuthClient) MigrateMeetings(ctx context.Context, meetings []models.HistoryItem) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MigrateCalls++
	f.LastMigrate = append([]models.HistoryItem(nil), meetings...)
	return f.MigrateRet, f.MigrateErr
}

func (f *fakeAuthClient) Logout(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LogoutCalls++
	f.LastLogoutToken = token
	return f.LogoutErr
}

func authResponse(token string, used int) *client.AuthResponse {
	return &client.AuthResponse{
		User: models.UserProfile{
			ID:        "srv-1",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		Token: token,
		Usage: models.RemoteUsage{UsedToday: used, DailyLimit: models.RegisteredDailyLimit},
	}
}

// fakeTokenClient mimics the HTTP client storing returned tokens.
type fakeTokenClient struct {
	*fakeAuthClient
	tokens client.TokenStore
}

func (f *fakeTokenClient) Register(ctx context.Context, req client.RegisterRequest) (*client.AuthResponse, error) {
	resp, err := f.fakeAuthClient.Register(ctx, req)
	if err == nil && resp.Token != "" {
		f.tokens.SetToken(resp.Token)
	}
	return resp, err
}

func (f *fakeTokenClient) Login(ctx context.Context, req client.LoginRequest) (*client.AuthResponse, error) {
	resp, err := f.fakeAuthClient.Login(ctx, req)
	if err == nil && resp.Token != "" {
		f.tokens.SetToken(resp.Token)
	}
	return resp, err
}

func newRemote(fc *fakeAuthClient) (*RemoteProvider, *client.MemoryTokenStore) {
	tokens := client.NewMemoryTokenStore()
	p := NewRemoteProvider(&fakeTokenClient{fakeAuthClient: fc, tokens: tokens}, tokens, logging.Nop())
	return p, tokens
}

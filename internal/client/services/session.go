package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/meetscribe/internal/client/history"
	"github.com/dmitrijs2005/meetscribe/internal/client/models"
	"github.com/dmitrijs2005/meetscribe/internal/client/storage"
	"github.com/dmitrijs2005/meetscribe/internal/client/usage"
	"github.com/dmitrijs2005/meetscribe/internal/common"
	"github.com/dmitrijs2005/meetscribe/internal/logging"
)

// RegisterResult is the outcome of a registration. MigrationErr is set when
// guest history could not be transferred; the registration itself succeeded
// and the history stays local.
type RegisterResult struct {
	Session      models.Session
	Migrated     int
	MigrationErr error
}

// SessionManager owns the identity and usage view of the running client.
// Every mutating action goes through it; readers use Session or Subscribe.
//
// Storage is written before the in-memory view changes. After Close no
// in-flight call updates the view any more.
type SessionManager struct {
	provider SessionProvider
	guest    *usage.Counter
	history  *history.Store
	store    *storage.Store
	logger   logging.Logger

	mu       sync.Mutex
	state    models.State
	identity *models.UserProfile
	used     int
	closed   bool
	subs     map[int]func(models.Session)
	nextSub  int
}

func NewSessionManager(provider SessionProvider, store *storage.Store, hist *history.Store, guest *usage.Counter, logger logging.Logger) *SessionManager {
	return &SessionManager{
		provider: provider,
		guest:    guest,
		history:  hist,
		store:    store,
		logger:   logger.With("component", "session"),
		subs:     make(map[int]func(models.Session)),
	}
}

// Start restores a persisted session, falling back to guest.
func (m *SessionManager) Start(ctx context.Context) models.Session {
	m.resolve(ctx)
	s := m.Session()
	m.logger.Info(ctx, "session started", "state", s.State, "used", s.Usage.Used, "limit", s.Usage.Limit)
	return s
}

// Reload re-derives the whole view from storage and the provider.
func (m *SessionManager) Reload(ctx context.Context) models.Session {
	m.resolve(ctx)
	return m.Session()
}

func (m *SessionManager) resolve(ctx context.Context) {
	res, err := m.provider.Restore(ctx)
	if err != nil {
		m.logger.Warn(ctx, "session restore failed", "error", err)
	}
	if res != nil {
		m.apply(models.StateRegistered, &res.User, res.Used)
		return
	}
	m.apply(models.StateGuest, nil, m.guest.Read(ctx).Count)
}

// Session returns the current view.
func (m *SessionManager) Session() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *SessionManager) snapshot() models.Session {
	return models.NewSession(m.state, m.identity, m.used)
}

// Subscribe calls fn with the new view after every change. The returned func
// removes the subscription.
func (m *SessionManager) Subscribe(fn func(models.Session)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// apply replaces the view and notifies subscribers outside the lock.
func (m *SessionManager) apply(state models.State, identity *models.UserProfile, used int) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	m.state = state
	m.identity = identity.Clone()
	m.used = used
	s := m.snapshot()
	subs := make([]func(models.Session), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
	return true
}

// applyUsed updates the count only while the identity the count was read for
// is still active.
func (m *SessionManager) applyUsed(identityID string, used int) {
	m.mu.Lock()
	if m.closed || profileID(m.identity) != identityID {
		m.mu.Unlock()
		return
	}
	state, identity := m.state, m.identity
	m.mu.Unlock()

	m.apply(state, identity, used)
}

func (m *SessionManager) current() (models.State, string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, profileID(m.identity), m.used
}

func profileID(u *models.UserProfile) string {
	if u == nil {
		return ""
	}
	return u.ID
}

// readUsed reads the authoritative count of the active tier. Failures keep the
// last known value.
func (m *SessionManager) readUsed(ctx context.Context) (registered bool, used int) {
	state, id, cached := m.current()
	if state != models.StateRegistered {
		used = m.guest.Read(ctx).Count
		m.applyUsed(id, used)
		return false, used
	}

	used, err := m.provider.Usage(ctx)
	if err != nil {
		m.logger.Warn(ctx, "usage refresh failed", "error", err)
		return true, cached
	}
	m.applyUsed(id, used)
	return true, used
}

// CheckLimit answers whether a gated action may run now. It always re-reads
// the usage source first.
func (m *SessionManager) CheckLimit(ctx context.Context) models.LimitStatus {
	registered, used := m.readUsed(ctx)
	return models.NewLimitStatus(used, registered)
}

// RefreshUsage resyncs the displayed count; failures are logged only.
func (m *SessionManager) RefreshUsage(ctx context.Context) models.Session {
	m.readUsed(ctx)
	return m.Session()
}

// IncrementUsage accounts one successful analysis. Guests count locally; for
// registered users the provider records it and the result is adopted.
func (m *SessionManager) IncrementUsage(ctx context.Context) models.Session {
	state, id, _ := m.current()

	if state != models.StateRegistered {
		rec := m.guest.Increment(ctx)
		m.applyUsed(id, rec.Count)
		return m.Session()
	}

	used, err := m.provider.RecordUsage(ctx)
	if err != nil {
		m.logger.Warn(ctx, "usage refresh after analysis failed", "error", err)
		return m.Session()
	}
	m.applyUsed(id, used)
	return m.Session()
}

// Register creates an account, switches to it and moves guest history into
// it when the provider supports that. A failed move is reported in the
// result, never as an error.
func (m *SessionManager) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	res, err := m.provider.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	m.apply(models.StateRegistered, &res.User, res.Used)
	m.logger.Info(ctx, "registered", "user_id", res.User.ID)

	out := &RegisterResult{}
	if migrator, ok := m.provider.(HistoryMigrator); ok {
		out.Migrated, out.MigrationErr = m.migrate(ctx, migrator)
	}
	out.Session = m.Session()
	return out, nil
}

func (m *SessionManager) migrate(ctx context.Context, migrator HistoryMigrator) (int, error) {
	items := m.history.Items(ctx)
	if len(items) == 0 {
		return 0, nil
	}

	n, err := migrator.MigrateHistory(ctx, items)
	if err != nil {
		m.logger.Warn(ctx, "history migration failed, keeping local history", "items", len(items), "error", err)
		return 0, &common.MigrationError{Items: len(items), Err: err}
	}

	m.history.Clear(ctx)
	m.logger.Info(ctx, "history migrated", "items", len(items), "migrated", n)
	return n, nil
}

// Login switches to an existing account. On failure the view is unchanged.
func (m *SessionManager) Login(ctx context.Context, in LoginInput) (models.Session, error) {
	res, err := m.provider.Login(ctx, in)
	if err != nil {
		return m.Session(), err
	}
	m.apply(models.StateRegistered, &res.User, res.Used)
	m.logger.Info(ctx, "logged in", "user_id", res.User.ID)
	return m.Session(), nil
}

// Logout returns to the guest tier.
func (m *SessionManager) Logout(ctx context.Context) models.Session {
	if err := m.provider.Logout(ctx); err != nil {
		m.logger.Warn(ctx, "logout failed", "error", err)
	}
	m.apply(models.StateGuest, nil, m.guest.Read(ctx).Count)
	m.logger.Info(ctx, "logged out")
	return m.Session()
}

// Watch re-derives the view whenever the identity or usage keys of the shared
// store change, e.g. from another client on the same profile. It blocks until
// ctx is done.
func (m *SessionManager) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := m.store.Fingerprint(ctx, storage.IdentityPrefixes...)

	for {
		select {
		case <-ticker.C:
			fp := m.store.Fingerprint(ctx, storage.IdentityPrefixes...)
			if fp == "" || fp == last {
				continue
			}
			last = fp
			m.logger.Debug(ctx, "shared store changed, reloading session")
			m.Reload(ctx)

		case <-ctx.Done():
			return
		}
	}
}

// Close stops view updates and releases the provider.
func (m *SessionManager) Close() error {
	m.mu.Lock()
	m.closed = true
	m.subs = make(map[int]func(models.Session))
	m.mu.Unlock()

	return m.provider.Close()
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/meetscribe/internal/client/models"
	"github.com/dmitrijs2005/meetscribe/internal/client/storage"
	"github.com/dmitrijs2005/meetscribe/internal/client/usage"
	"github.com/dmitrijs2005/meetscribe/internal/common"
	"github.com/dmitrijs2005/meetscribe/internal/cryptox"
	"github.com/dmitrijs2005/meetscribe/internal/logging"
	"github.com/google/uuid"
)

// localAccount is the simulated account persisted under
// storage.KeyLocalAccount. Salt and Verifier are empty for password-less
// accounts.
type localAccount struct {
	Profile  models.UserProfile `json:"profile"`
	Salt     []byte             `json:"salt,omitempty"`
	Verifier []byte             `json:"verifier,omitempty"`
}

func validAccount(a *localAccount) error {
	if a.Profile.ID == "" || a.Profile.Email == "" {
		return errors.New("account without id or email")
	}
	if (len(a.Salt) == 0) != (len(a.Verifier) == 0) {
		return errors.New("account with partial credentials")
	}
	return nil
}

// LocalProvider keeps the identity entirely in the local store. One account
// exists per store and registering again replaces it. The active session is
// the profile id stored under storage.KeyLocalSession.
type LocalProvider struct {
	store  *storage.Store
	logger logging.Logger
	now    func() time.Time
}

func NewLocalProvider(store *storage.Store, logger logging.Logger) *LocalProvider {
	return &LocalProvider{store: store, logger: logger.With("provider", "local"), now: time.Now}
}

func (p *LocalProvider) account(ctx context.Context) (localAccount, bool) {
	return storage.Decode(ctx, p.store, storage.KeyLocalAccount, validAccount)
}

func (p *LocalProvider) counter(profileID string) *usage.Counter {
	return usage.NewCounter(p.store, storage.UsageKey(profileID), usage.WithClock(p.now))
}

func (p *LocalProvider) result(ctx context.Context, profile models.UserProfile) *AuthResult {
	return &AuthResult{User: profile, Used: p.counter(profile.ID).Read(ctx).Count}
}

func (p *LocalProvider) activeID(ctx context.Context) (string, bool) {
	id, ok := p.store.Get(ctx, storage.KeyLocalSession)
	return id, ok && id != ""
}

// Restore returns the account when its session is active.
func (p *LocalProvider) Restore(ctx context.Context) (*AuthResult, error) {
	id, ok := p.activeID(ctx)
	if !ok {
		return nil, nil
	}
	acc, ok := p.account(ctx)
	if !ok || acc.Profile.ID != id {
		p.logger.Info(ctx, "dropping session without matching account")
		p.store.Remove(ctx, storage.KeyLocalSession)
		return nil, nil
	}
	return p.result(ctx, acc.Profile), nil
}

// Register creates the local account, replacing any previous one, and
// activates it. The password is optional.
func (p *LocalProvider) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	defer common.WipeByteArray(in.Password)
	defer common.WipeByteArray(in.ConfirmPassword)

	if err := ValidateRegistration(in, false); err != nil {
		return nil, err
	}

	acc := localAccount{
		Profile: models.UserProfile{
			ID:        uuid.NewString(),
			Name:      strings.TrimSpace(strings.TrimSpace(in.FirstName) + " " + strings.TrimSpace(in.LastName)),
			Email:     normalizeEmail(in.Email),
			CreatedAt: p.now().UTC(),
		},
	}
	if len(in.Password) > 0 {
		acc.Salt, acc.Verifier = cryptox.NewVerifier(in.Password)
	}

	if err := p.activate(ctx, acc); err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	p.logger.Info(ctx, "local account created", "user_id", acc.Profile.ID)
	return p.result(ctx, acc.Profile), nil
}

// Login activates the stored account when the email matches and, for
// password-protected accounts, the password verifies.
func (p *LocalProvider) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	defer common.WipeByteArray(in.Password)

	if err := ValidateLogin(in, false); err != nil {
		return nil, err
	}

	acc, ok := p.account(ctx)
	if !ok || acc.Profile.Email != normalizeEmail(in.Email) {
		return nil, common.ErrNotFound
	}
	if len(acc.Verifier) > 0 && !cryptox.CheckPassword(in.Password, acc.Salt, acc.Verifier) {
		return nil, common.ErrInvalidCredentials
	}

	now := p.now().UTC()
	acc.Profile.LastLoginAt = &now
	if err := p.activate(ctx, acc); err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	return p.result(ctx, acc.Profile), nil
}

func (p *LocalProvider) activate(ctx context.Context, acc localAccount) error {
	b, err := json.Marshal(acc)
	if err != nil {
		return err
	}
	p.store.Update(ctx, map[string]string{
		storage.KeyLocalAccount: string(b),
		storage.KeyLocalSession: acc.Profile.ID,
	})
	return nil
}

// Logout ends the session and keeps the account for a later login.
func (p *LocalProvider) Logout(ctx context.Context) error {
	p.store.Remove(ctx, storage.KeyLocalSession)
	return nil
}

func (p *LocalProvider) Usage(ctx context.Context) (int, error) {
	id, ok := p.activeID(ctx)
	if !ok {
		return 0, common.ErrUnauthorized
	}
	return p.counter(id).Read(ctx).Count, nil
}

func (p *LocalProvider) RecordUsage(ctx context.Context) (int, error) {
	id, ok := p.activeID(ctx)
	if !ok {
		return 0, common.ErrUnauthorized
	}
	return p.counter(id).Increment(ctx).Count, nil
}

func (p *LocalProvider) Close() error {
	return nil
}

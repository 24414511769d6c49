package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/meetscribe/internal/client/client"
	"github.com/dmitrijs2005/meetscribe/internal/client/models"
	"github.com/dmitrijs2005/meetscribe/internal/common"
	"github.com/dmitrijs2005/meetscribe/internal/logging"
)

const defaultLogoutTimeout = 5 * time.Second

// RemoteProvider resolves the identity through the backend. The bearer token
// lives in tokens and never reaches the durable store.
type RemoteProvider struct {
	client client.AuthClient
	tokens client.TokenStore
	logger logging.Logger
	now    func() time.Time

	logoutTimeout time.Duration
	wg            sync.WaitGroup
}

func NewRemoteProvider(c client.AuthClient, tokens client.TokenStore, logger logging.Logger) *RemoteProvider {
	return &RemoteProvider{
		client:        c,
		tokens:        tokens,
		logger:        logger.With("provider", "remote"),
		now:           time.Now,
		logoutTimeout: defaultLogoutTimeout,
	}
}

func (p *RemoteProvider) result(ctx context.Context, resp *client.AuthResponse) *AuthResult {
	p.checkLimit(ctx, resp.Usage)
	return &AuthResult{User: resp.User, Used: resp.Usage.UsedToday}
}

// checkLimit logs a server quota that disagrees with the tier mapping. The
// client keeps its own mapping.
func (p *RemoteProvider) checkLimit(ctx context.Context, u models.RemoteUsage) {
	if u.DailyLimit != 0 && u.DailyLimit != models.RegisteredDailyLimit {
		p.logger.Warn(ctx, "server daily limit differs from client tier limit",
			"server", u.DailyLimit, "client", models.RegisteredDailyLimit)
	}
}

// Restore re-establishes the session of the stored token. A missing, expired
// or rejected token yields no session. The token is kept when the backend is
// unreachable so a later run can retry.
func (p *RemoteProvider) Restore(ctx context.Context) (*AuthResult, error) {
	token := p.tokens.Token()
	if token == "" {
		return nil, nil
	}
	if client.TokenExpired(token, p.now()) {
		p.logger.Info(ctx, "stored session token expired")
		p.tokens.Clear()
		return nil, nil
	}

	resp, err := p.client.Me(ctx)
	if err != nil {
		p.logger.Info(ctx, "session restore failed", "error", err)
		if !errors.Is(err, client.ErrUnavailable) {
			p.tokens.Clear()
		}
		return nil, nil
	}
	return p.result(ctx, resp), nil
}

func (p *RemoteProvider) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	defer common.WipeByteArray(in.Password)
	defer common.WipeByteArray(in.ConfirmPassword)

	if err := ValidateRegistration(in, true); err != nil {
		return nil, err
	}

	resp, err := p.client.Register(ctx, client.RegisterRequest{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		Password:  string(in.Password),
	})
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	return p.result(ctx, resp), nil
}

func (p *RemoteProvider) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	defer common.WipeByteArray(in.Password)

	if err := ValidateLogin(in, true); err != nil {
		return nil, err
	}

	resp, err := p.client.Login(ctx, client.LoginRequest{
		Email:    strings.TrimSpace(in.Email),
		Password: string(in.Password),
	})
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	return p.result(ctx, resp), nil
}

// Logout drops the token at once and revokes it on the backend in the
// background. Revocation failures are logged.
func (p *RemoteProvider) Logout(ctx context.Context) error {
	token := p.tokens.Token()
	p.tokens.Clear()
	if token == "" {
		return nil
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.logoutTimeout)
		defer cancel()

		if err := p.client.Logout(ctx, token); err != nil {
			p.logger.Warn(ctx, "backend logout failed", "error", err)
		}
	}()
	return nil
}

func (p *RemoteProvider) Usage(ctx context.Context) (int, error) {
	u, err := p.client.Usage(ctx)
	if err != nil {
		return 0, fmt.Errorf("usage error: %w", err)
	}
	p.checkLimit(ctx, *u)
	return u.UsedToday, nil
}

// RecordUsage re-reads the backend counter; the backend counts the analysis
// request itself.
func (p *RemoteProvider) RecordUsage(ctx context.Context) (int, error) {
	return p.Usage(ctx)
}

func (p *RemoteProvider) MigrateHistory(ctx context.Context, items []models.HistoryItem) (int, error) {
	n, err := p.client.MigrateMeetings(ctx, items)
	if err != nil {
		return 0, fmt.Errorf("migrate meetings error: %w", err)
	}
	return n, nil
}

// Close waits for background logout calls.
func (p *RemoteProvider) Close() error {
	p.wg.Wait()
	return nil
}

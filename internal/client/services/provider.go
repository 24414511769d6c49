// Package services contains the application services of the meetscribe
// client: identity providers, the session manager that gates usage, and the
// meeting analysis/export service built on top of it.
package services

import (
	"context"

	"github.com/dmitrijs2005/meetscribe/internal/client/models"
)

// RegisterInput is the account creation form. Password and ConfirmPassword
// are wiped by the provider once used.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        []byte
	ConfirmPassword []byte
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string
	Password []byte
}

// AuthResult is the identity of an established session and the usage count
// its tier starts with.
type AuthResult struct {
	User models.UserProfile
	Used int
}

// SessionProvider resolves and mutates the identity of the session.
//
// Contract:
//   - Restore: return the identity persisted from an earlier run, or nil when
//     there is none. Failures to restore are not errors.
//   - Register, Login: validate input, establish the identity and return it.
//   - Logout: drop the identity. It does not fail on backend problems.
//   - Usage: today's used count of the registered tier.
//   - RecordUsage: account one successful analysis of the registered tier and
//     return the resulting count.
//   - Close: release resources and wait for background calls.
type SessionProvider interface {
	Restore(ctx context.Context) (*AuthResult, error)
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Logout(ctx context.Context) error
	Usage(ctx context.Context) (int, error)
	RecordUsage(ctx context.Context) (int, error)
	Close() error
}

// HistoryMigrator is implemented by providers that can take over guest
// history into the new account.
type HistoryMigrator interface {
	MigrateHistory(ctx context.Context, items []models.HistoryItem) (int, error)
}

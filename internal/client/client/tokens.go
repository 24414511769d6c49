package client

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/meetscribe/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// TokenStore holds the bearer token of the current session.
type TokenStore interface {
	Token() string
	SetToken(token string)
	Clear()
}

// MemoryTokenStore keeps the token in process memory only.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryTokenStore) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *MemoryTokenStore) Clear() {
	s.SetToken("")
}

// SessionFileTokenStore mirrors the token into a 0600 file so that later
// runs from the same terminal session can restore it. The file lives in the
// OS temp directory and is removed on Clear; it is never part of the durable
// local database.
type SessionFileTokenStore struct {
	mem    MemoryTokenStore
	path   string
	logger logging.Logger
	once   sync.Once
}

// DefaultSessionTokenPath returns the token file of the current terminal
// session, keyed by the parent process (the shell).
func DefaultSessionTokenPath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("meetscribe-session-%d", os.Getppid()))
}

func NewSessionFileTokenStore(path string, logger logging.Logger) *SessionFileTokenStore {
	return &SessionFileTokenStore{path: path, logger: logger}
}

func (s *SessionFileTokenStore) load() {
	s.once.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				s.logger.Warn(context.Background(), "session token read failed", "error", err)
			}
			return
		}
		s.mem.SetToken(strings.TrimSpace(string(b)))
	})
}

func (s *SessionFileTokenStore) Token() string {
	s.load()
	return s.mem.Token()
}

func (s *SessionFileTokenStore) SetToken(token string) {
	s.load()
	s.mem.SetToken(token)
	if token == "" {
		s.remove()
		return
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		s.logger.Warn(context.Background(), "session token write failed", "error", err)
	}
}

func (s *SessionFileTokenStore) Clear() {
	s.SetToken("")
}

func (s *SessionFileTokenStore) remove() {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn(context.Background(), "session token remove failed", "error", err)
	}
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// The client cannot verify backend tokens; the value only lets restore skip a
// call that is bound to fail. ok is false for opaque or exp-less tokens.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// TokenExpired reports whether token carries an exp claim at or before now.
func TokenExpired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	return ok && !now.Before(exp)
}

// Package storage is the local key-value store of the client: durable
// key → string persistence over SQLite plus typed accessors.
//
// Get, Set and Remove never fail. Read errors behave like a missing key and
// write errors are logged and dropped, so a broken database degrades the
// client to defaults instead of stopping it.
package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/dmitrijs2005/meetscribe/internal/client/repositories/kv"
	"github.com/dmitrijs2005/meetscribe/internal/dbx"
	"github.com/dmitrijs2005/meetscribe/internal/logging"
)

type Store struct {
	db     *sql.DB
	logger logging.Logger
}

func NewStore(db *sql.DB, logger logging.Logger) *Store {
	return &Store{db: db, logger: logger.With("component", "storage")}
}

func (s *Store) repo(db dbx.DBTX) kv.Repository {
	return kv.NewSQLiteRepository(db)
}

// Get returns the value of key and whether it is present.
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	v, err := s.repo(s.db).Get(ctx, key)
	if err != nil {
		s.logger.Warn(ctx, "storage read failed", "key", key, "error", err)
		return "", false
	}
	if v == nil {
		return "", false
	}
	return string(v), true
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key string, value string) {
	if err := s.repo(s.db).Set(ctx, key, []byte(value)); err != nil {
		s.logger.Warn(ctx, "storage write failed", "key", key, "error", err)
	}
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) {
	if err := s.repo(s.db).Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "storage remove failed", "key", key, "error", err)
	}
}

// Update writes set and deletes remove in one transaction; either all
// changes land or none do.
func (s *Store) Update(ctx context.Context, set map[string]string, remove ...string) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		for k, v := range set {
			if err := repo.Set(ctx, k, []byte(v)); err != nil {
				return err
			}
		}
		for _, k := range remove {
			if err := repo.Delete(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Warn(ctx, "storage update failed", "keys", len(set)+len(remove), "error", err)
	}
}

// SetJSON stores v encoded as JSON.
func (s *Store) SetJSON(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn(ctx, "storage encode failed", "key", key, "error", err)
		return
	}
	s.Set(ctx, key, string(b))
}

// Fingerprint hashes every key/value pair under the given prefixes. It returns
// "" when the store cannot be read.
func (s *Store) Fingerprint(ctx context.Context, prefixes ...string) string {
	pairs := make(map[string][]byte)
	for _, p := range prefixes {
		m, err := s.repo(s.db).List(ctx, p)
		if err != nil {
			s.logger.Warn(ctx, "storage fingerprint failed", "prefix", p, "error", err)
			return ""
		}
		for k, v := range m {
			pairs[k] = v
		}
	}

	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write(pairs[k])
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Decode reads key as JSON into a T and lets check reject or normalize it.
// Missing, malformed or rejected values yield the zero T and false.
func Decode[T any](ctx context.Context, s *Store, key string, check func(*T) error) (T, bool) {
	var zero T

	raw, ok := s.Get(ctx, key)
	if !ok {
		return zero, false
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.logger.Warn(ctx, "discarding malformed stored value", "key", key, "error", err)
		return zero, false
	}
	if check != nil {
		if err := check(&v); err != nil {
			s.logger.Warn(ctx, "discarding invalid stored value", "key", key, "error", err)
			return zero, false
		}
	}
	return v, true
}

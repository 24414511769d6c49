// Package history keeps the meeting history in the local store.
//
// Items are persisted oldest first as one JSON array. The list is capped at
// MaxItems; on overflow the oldest items are dropped. Adding an item with the
// same file name as an existing one created within DedupWindow is a no-op,
// which absorbs duplicate submit events.
package history

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dmitrijs2005/meetscribe/internal/client/models"
	"github.com/dmitrijs2005/meetscribe/internal/client/storage"
	"github.com/google/uuid"
)

const (
	MaxItems    = 100
	DedupWindow = 60 * time.Second
)

type Store struct {
	store *storage.Store
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for new items.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(store *storage.Store, opts ...Option) *Store {
	s := &Store{store: store, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func validItems(items *[]models.HistoryItem) error {
	if *items == nil {
		return errors.New("history is not a list")
	}
	*items = slices.DeleteFunc(*items, func(it models.HistoryItem) bool {
		return it.ID == "" || it.CreatedAt.IsZero() || it.FileName == ""
	})
	return nil
}

func (s *Store) load(ctx context.Context) []models.HistoryItem {
	items, ok := storage.Decode(ctx, s.store, storage.KeyHistory, validItems)
	if !ok {
		return []models.HistoryItem{}
	}
	return items
}

func (s *Store) save(ctx context.Context, items []models.HistoryItem) {
	if len(items) > MaxItems {
		items = items[len(items)-MaxItems:]
	}
	s.store.SetJSON(ctx, storage.KeyHistory, items)
}

// List returns the stored items, newest first.
func (s *Store) List(ctx context.Context) []models.HistoryItem {
	items := s.load(ctx)
	slices.Reverse(items)
	return items
}

// Items returns the stored items in insertion order, oldest first.
func (s *Store) Items(ctx context.Context) []models.HistoryItem {
	return s.load(ctx)
}

// Len returns the number of stored items.
func (s *Store) Len(ctx context.Context) int {
	return len(s.load(ctx))
}

// Get returns the item with id.
func (s *Store) Get(ctx context.Context, id string) (models.HistoryItem, bool) {
	for _, it := range s.load(ctx) {
		if it.ID == id {
			return it, true
		}
	}
	return models.HistoryItem{}, false
}

// Add stores item, assigning an ID and creation time when missing. It returns
// the stored item and true, or the already stored duplicate and false.
func (s *Store) Add(ctx context.Context, item models.HistoryItem) (models.HistoryItem, bool) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.now().UTC()
	}

	items := s.load(ctx)
	for _, it := range items {
		if isDuplicate(it, item) {
			return it, false
		}
	}

	s.save(ctx, append(items, item))
	return item, true
}

func isDuplicate(a, b models.HistoryItem) bool {
	if a.ID == b.ID {
		return true
	}
	if a.FileName != b.FileName {
		return false
	}
	d := a.CreatedAt.Sub(b.CreatedAt)
	if d < 0 {
		d = -d
	}
	return d < DedupWindow
}

// MarkExported sets the export flag of format on item id. Flags never reset.
func (s *Store) MarkExported(ctx context.Context, id string, format models.ExportFormat) bool {
	items := s.load(ctx)
	for i := range items {
		if items[i].ID != id {
			continue
		}
		switch format {
		case models.ExportDOCX:
			items[i].Exports.Word = true
		case models.ExportPDF:
			items[i].Exports.PDF = true
		default:
			return false
		}
		s.save(ctx, items)
		return true
	}
	return false
}

// Delete removes item id and reports whether it existed.
func (s *Store) Delete(ctx context.Context, id string) bool {
	items := s.load(ctx)
	n := len(items)
	items = slices.DeleteFunc(items, func(it models.HistoryItem) bool { return it.ID == id })
	if len(items) == n {
		return false
	}
	s.save(ctx, items)
	return true
}

// Clear removes every item.
func (s *Store) Clear(ctx context.Context) {
	s.store.Remove(ctx, storage.KeyHistory)
}

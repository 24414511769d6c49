// Package usage implements the date-scoped local usage counter.
//
// The counter resets lazily: a record stored for another calendar date reads
// as zero for today, and nothing is written until the next increment. Dates
// come from the client clock in its local time zone.
package usage

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/meetscribe/internal/client/models"
	"github.com/dmitrijs2005/meetscribe/internal/client/storage"
)

type Counter struct {
	store *storage.Store
	key   string
	now   func() time.Time
}

// Option configures a Counter.
type Option func(*Counter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Counter) { c.now = now }
}

// NewCounter returns a counter persisted under key.
func NewCounter(store *storage.Store, key string, opts ...Option) *Counter {
	c := &Counter{store: store, key: key, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Counter) today() string {
	return c.now().Format(models.DateLayout)
}

func validRecord(r *models.UsageRecord) error {
	if _, err := time.Parse(models.DateLayout, r.Date); err != nil {
		return err
	}
	if r.Count < 0 {
		return errors.New("negative usage count")
	}
	return nil
}

// Read returns today's record. A missing, invalid or stale record yields a
// zero count for today without touching storage.
func (c *Counter) Read(ctx context.Context) models.UsageRecord {
	today := c.today()

	rec, ok := storage.Decode(ctx, c.store, c.key, validRecord)
	if !ok || rec.Date != today {
		return models.UsageRecord{Date: today, Count: 0}
	}
	return rec
}

// Increment re-derives today's baseline and stores baseline+1.
func (c *Counter) Increment(ctx context.Context) models.UsageRecord {
	now := c.now()
	base := c.Read(ctx)

	rec := models.UsageRecord{
		Date:       base.Date,
		Count:      base.Count + 1,
		LastUsedAt: &now,
	}
	c.store.SetJSON(ctx, c.key, rec)
	return rec
}

// Reset deletes the stored record.
func (c *Counter) Reset(ctx context.Context) {
	c.store.Remove(ctx, c.key)
}

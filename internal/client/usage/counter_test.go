package usage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/meetscribe/internal/client/models"
	"github.com/dmitrijs2005/meetscribe/internal/client/storage"
	"github.com/dmitrijs2005/meetscribe/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func setupCounter(t *testing.T, start time.Time) (*Counter, *storage.Store, *fakeClock) {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "usage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := storage.NewStore(db, logging.Nop())
	clock := &fakeClock{t: start}
	return NewCounter(s, storage.KeyUsageCounter, WithClock(clock.Now)), s, clock
}

func TestRead_FreshProfileIsZero(t *testing.T) {
	c, s, _ := setupCounter(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local))
	ctx := context.Background()

	rec := c.Read(ctx)
	assert.Equal(t, models.UsageRecord{Date: "2024-01-01", Count: 0}, rec)

	_, stored := s.Get(ctx, storage.KeyUsageCounter)
	assert.False(t, stored, "read never writes")
}

func TestIncrement_MonotonicWithinDay(t *testing.T) {
	c, _, clock := setupCounter(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local))
	ctx := context.Background()

	prev := 0
	for i := 1; i <= 6; i++ {
		rec := c.Increment(ctx)
		require.Equal(t, i, rec.Count)
		require.NotNil(t, rec.LastUsedAt)

		got := c.Read(ctx).Count
		require.GreaterOrEqual(t, got, prev)
		require.Equal(t, i, got)
		prev = got
		clock.Advance(time.Hour)
	}
}

func TestRead_DateRolloverResetsLazily(t *testing.T) {
	c, s, clock := setupCounter(t, time.Date(2024, 1, 1, 23, 0, 0, 0, time.Local))
	ctx := context.Background()

	c.Increment(ctx)
	require.Equal(t, 1, c.Read(ctx).Count)

	clock.Advance(2 * time.Hour)
	rec := c.Read(ctx)
	assert.Equal(t, "2024-01-02", rec.Date)
	assert.Equal(t, 0, rec.Count)

	raw, _ := s.Get(ctx, storage.KeyUsageCounter)
	assert.Contains(t, raw, `"date":"2024-01-01"`, "stale record stays until next write")

	rec = c.Increment(ctx)
	assert.Equal(t, models.UsageRecord{Date: "2024-01-02", Count: 1, LastUsedAt: rec.LastUsedAt}, rec)
}

func TestRead_StoredRecordFromAnotherDay(t *testing.T) {
	c, s, _ := setupCounter(t, time.Date(2024, 1, 2, 12, 0, 0, 0, time.Local))
	ctx := context.Background()

	s.Set(ctx, storage.KeyUsageCounter, `{"date":"2024-01-01","count":1}`)

	assert.Equal(t, models.UsageRecord{Date: "2024-01-02", Count: 0}, c.Read(ctx))
}

func TestRead_ClockMovedBackwardsAlsoResets(t *testing.T) {
	c, s, _ := setupCounter(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local))
	ctx := context.Background()

	s.Set(ctx, storage.KeyUsageCounter, `{"date":"2024-01-05","count":3}`)

	assert.Equal(t, 0, c.Read(ctx).Count)
}

func TestRead_CorruptedRecordIsZero(t *testing.T) {
	c, s, _ := setupCounter(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local))
	ctx := context.Background()

	for _, raw := range []string{
		`garbage`,
		`{"count":2}`,
		`{"date":"01/01/2024","count":2}`,
		`{"date":"2024-01-01","count":-1}`,
		`{"date":"2024-01-01","count":"two"}`,
	} {
		s.Set(ctx, storage.KeyUsageCounter, raw)
		assert.Equal(t, 0, c.Read(ctx).Count, raw)
	}

	s.Set(ctx, storage.KeyUsageCounter, `{"date":"2024-01-01","count":2}`)
	assert.Equal(t, 3, c.Increment(ctx).Count)
}

func TestCountersWithDifferentKeysAreIndependent(t *testing.T) {
	c, s, clock := setupCounter(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local))
	ctx := context.Background()

	other := NewCounter(s, storage.UsageKey("u1"), WithClock(clock.Now))

	c.Increment(ctx)
	assert.Equal(t, 1, c.Read(ctx).Count)
	assert.Equal(t, 0, other.Read(ctx).Count)

	other.Increment(ctx)
	other.Increment(ctx)
	assert.Equal(t, 2, other.Read(ctx).Count)

	c.Reset(ctx)
	assert.Equal(t, 0, c.Read(ctx).Count)
	assert.Equal(t, 2, other.Read(ctx).Count)
}

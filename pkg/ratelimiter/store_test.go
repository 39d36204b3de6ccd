package ratelimiter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutricare/authcore/pkg/ratelimiter"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var cfg = ratelimiter.Config{
	Capacity:       5,
	RefillRate:     2,
	RefillInterval: time.Minute,
}

// storeSuite runs the same bucket semantics against every Store.
func storeSuite(t *testing.T, newStore func(t *testing.T, clock *fakeClock) ratelimiter.Store) {
	ctx := context.Background()

	t.Run("new bucket starts full", func(t *testing.T) {
		t.Parallel()
		store := newStore(t, newFakeClock())
		remaining, resetAt, err := store.ConsumeTokens(ctx, "k", 1, cfg)
		require.NoError(t, err)
		assert.Equal(t, 4, remaining)
		assert.False(t, resetAt.IsZero())
	})

	t.Run("goes negative when exhausted", func(t *testing.T) {
		t.Parallel()
		store := newStore(t, newFakeClock())
		remaining, _, err := store.ConsumeTokens(ctx, "k", 5, cfg)
		require.NoError(t, err)
		assert.Equal(t, 0, remaining)
		remaining, _, err = store.ConsumeTokens(ctx, "k", 1, cfg)
		require.NoError(t, err)
		assert.Equal(t, -1, remaining)
	})

	t.Run("refills per interval and caps at capacity", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		store := newStore(t, clock)

		_, _, err := store.ConsumeTokens(ctx, "k", 5, cfg)
		require.NoError(t, err)

		clock.Advance(cfg.RefillInterval)
		remaining, resetAt, err := store.ConsumeTokens(ctx, "k", 0, cfg)
		require.NoError(t, err)
		assert.Equal(t, 2, remaining)
		assert.Equal(t, clock.Now().Add(cfg.RefillInterval).UnixMilli(), resetAt.UnixMilli())

		clock.Advance(10 * cfg.RefillInterval)
		remaining, _, err = store.ConsumeTokens(ctx, "k", 0, cfg)
		require.NoError(t, err)
		assert.Equal(t, cfg.Capacity, remaining)
	})

	t.Run("keys are independent and resettable", func(t *testing.T) {
		t.Parallel()
		store := newStore(t, newFakeClock())

		_, _, err := store.ConsumeTokens(ctx, "a", 5, cfg)
		require.NoError(t, err)
		remaining, _, err := store.ConsumeTokens(ctx, "b", 1, cfg)
		require.NoError(t, err)
		assert.Equal(t, 4, remaining)

		require.NoError(t, store.Reset(ctx, "a"))
		remaining, _, err = store.ConsumeTokens(ctx, "a", 1, cfg)
		require.NoError(t, err)
		assert.Equal(t, 4, remaining)
	})
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	storeSuite(t, func(t *testing.T, clock *fakeClock) ratelimiter.Store {
		s := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0), ratelimiter.WithMemoryClock(clock.Now))
		t.Cleanup(s.Close)
		return s
	})
}

func TestMemoryStoreRemoveStale(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	s := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0), ratelimiter.WithMemoryClock(clock.Now))
	defer s.Close()
	ctx := context.Background()

	_, _, err := s.ConsumeTokens(ctx, "old", 1, cfg)
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)
	_, _, err = s.ConsumeTokens(ctx, "recent", 1, cfg)
	require.NoError(t, err)

	clock.Advance(45 * time.Minute)
	s.RemoveStale()
	assert.Equal(t, 1, s.Len())

	s.Close()
	s.Close()
}

func TestRedisStore(t *testing.T) {
	t.Parallel()
	storeSuite(t, func(t *testing.T, clock *fakeClock) ratelimiter.Store {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })
		return ratelimiter.NewRedisStore(rdb, ratelimiter.WithRedisClock(clock.Now))
	})
}

func TestRedisStoreKeyPrefixAndExpiry(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	store := ratelimiter.NewRedisStore(rdb, ratelimiter.WithKeyPrefix("rl:"))
	_, _, err := store.ConsumeTokens(context.Background(), "1.2.3.4", 1, cfg)
	require.NoError(t, err)

	assert.True(t, mr.Exists("rl:1.2.3.4"))
	assert.True(t, mr.TTL("rl:1.2.3.4") > 0)
}

func TestRedisStoreUnavailable(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	store := ratelimiter.NewRedisStore(rdb)
	_, _, err := store.ConsumeTokens(context.Background(), "k", 1, cfg)
	assert.ErrorIs(t, err, ratelimiter.ErrStoreUnavailable)
}

func TestNewBucket(t *testing.T) {
	t.Parallel()

	for _, bad := range []ratelimiter.Config{
		{Capacity: 0, RefillRate: 1, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 0, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 1},
	} {
		_, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0)), bad)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
	}

	b, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0)), cfg)
	require.NoError(t, err)
	_, err = b.AllowN(context.Background(), "k", 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
}

package memstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/referral-portal/credentials"
	"github.com/jrsteele09/referral-portal/credentials/memstore"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestStore_PutGetOverwrite(t *testing.T) {
	ctx := context.Background()
	s := memstore.New().Scope("browser-1")

	_, ok := s.Get(ctx, credentials.AccessTokenKey)
	require.False(t, ok)

	require.NoError(t, s.Put(ctx, credentials.AccessTokenKey, "first", time.Hour))
	v, ok := s.Get(ctx, credentials.AccessTokenKey)
	require.True(t, ok)
	require.Equal(t, "first", v)

	require.NoError(t, s.Put(ctx, credentials.AccessTokenKey, "second", time.Hour))
	v, ok = s.Get(ctx, credentials.AccessTokenKey)
	require.True(t, ok)
	require.Equal(t, "second", v)
}

func TestStore_IndependentExpiry(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	s := memstore.New(memstore.WithNowTime(clock.Now)).Scope("browser-1")

	require.NoError(t, s.PutAll(ctx, credentials.DefaultTTLs().SessionEntries("a", "r", "hr")...))

	clock.Advance(7*24*time.Hour - time.Second)
	_, ok := s.Get(ctx, credentials.AccessTokenKey)
	require.True(t, ok)

	clock.Advance(time.Second)
	_, ok = s.Get(ctx, credentials.AccessTokenKey)
	require.False(t, ok, "expired entry must read as absent")
	_, ok = s.Get(ctx, credentials.UserRoleKey)
	require.False(t, ok)

	v, ok := s.Get(ctx, credentials.RefreshTokenKey)
	require.True(t, ok, "refresh token lives 30 days")
	require.Equal(t, "r", v)
}

func TestStore_ClearAndClearAll(t *testing.T) {
	ctx := context.Background()
	s := memstore.New().Scope("browser-1")
	require.NoError(t, s.PutAll(ctx, credentials.DefaultTTLs().SessionEntries("a", "r", "employee")...))

	require.NoError(t, s.Clear(ctx, credentials.RefreshTokenKey))
	_, ok := s.Get(ctx, credentials.RefreshTokenKey)
	require.False(t, ok)
	_, ok = s.Get(ctx, credentials.AccessTokenKey)
	require.True(t, ok)

	require.NoError(t, s.ClearAll(ctx))
	require.NoError(t, s.ClearAll(ctx))
	for _, k := range credentials.SessionKeys() {
		_, ok := s.Get(ctx, k)
		require.False(t, ok, k)
	}
}

func TestBackend_ScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	b := memstore.New()
	a := b.Scope("a")
	other := b.Scope("b")

	require.NoError(t, a.Put(ctx, credentials.AccessTokenKey, "token-a", time.Hour))
	_, ok := other.Get(ctx, credentials.AccessTokenKey)
	require.False(t, ok)

	// The same scope id reaches the same data, like a second browser tab.
	v, ok := b.Scope("a").Get(ctx, credentials.AccessTokenKey)
	require.True(t, ok)
	require.Equal(t, "token-a", v)
}

func TestBackend_Purge(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	b := memstore.New(memstore.WithNowTime(clock.Now))

	require.NoError(t, b.Scope("a").Put(ctx, credentials.AccessTokenKey, "x", time.Minute))
	require.NoError(t, b.Scope("b").Put(ctx, credentials.AccessTokenKey, "y", time.Hour))

	clock.Advance(2 * time.Minute)
	require.Equal(t, 1, b.Purge())

	_, ok := b.Scope("b").Get(ctx, credentials.AccessTokenKey)
	require.True(t, ok)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	b := memstore.New()
	ttls := credentials.DefaultTTLs()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s := b.Scope("shared")
			for j := 0; j < 100; j++ {
				if n%2 == 0 {
					_ = s.PutAll(ctx, ttls.SessionEntries("a", "r", "hr")...)
				} else {
					_, _ = s.Get(ctx, credentials.AccessTokenKey)
					_ = s.ClearAll(ctx)
				}
			}
		}(i)
	}
	wg.Wait()

	s := b.Scope("shared")
	require.NoError(t, s.PutAll(ctx, ttls.SessionEntries("a", "r", "hr")...))
	v, ok := s.Get(ctx, credentials.UserRoleKey)
	require.True(t, ok)
	require.Equal(t, "hr", v)
}

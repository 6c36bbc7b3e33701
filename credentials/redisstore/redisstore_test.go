package redisstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/referral-portal/credentials"
	"github.com/jrsteele09/referral-portal/credentials/redisstore"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupBackend(t *testing.T) (*miniredis.Miniredis, *redisstore.Backend) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redisstore.New(client, "test")
}

func TestStore_PutAllAndGet(t *testing.T) {
	ctx := context.Background()
	mr, b := setupBackend(t)
	s := b.Scope("browser-1")

	require.NoError(t, s.PutAll(ctx, credentials.DefaultTTLs().SessionEntries("acc", "ref", "employee")...))

	v, ok := s.Get(ctx, credentials.AccessTokenKey)
	require.True(t, ok)
	require.Equal(t, "acc", v)

	require.True(t, mr.Exists("test:browser-1:access_token"))
	require.Equal(t, 7*24*time.Hour, mr.TTL("test:browser-1:access_token"))
	require.Equal(t, 30*24*time.Hour, mr.TTL("test:browser-1:refresh_token"))
	require.Equal(t, 7*24*time.Hour, mr.TTL("test:browser-1:user_role"))
}

func TestStore_ExpiryReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	mr, b := setupBackend(t)
	s := b.Scope("browser-1")

	require.NoError(t, s.Put(ctx, credentials.AccessTokenKey, "acc", time.Hour))
	mr.FastForward(time.Hour + time.Second)

	_, ok := s.Get(ctx, credentials.AccessTokenKey)
	require.False(t, ok)
}

func TestStore_ClearAll(t *testing.T) {
	ctx := context.Background()
	mr, b := setupBackend(t)
	s := b.Scope("browser-1")
	other := b.Scope("browser-2")

	require.NoError(t, s.PutAll(ctx, credentials.DefaultTTLs().SessionEntries("acc", "ref", "hr")...))
	require.NoError(t, other.Put(ctx, credentials.AccessTokenKey, "other", time.Hour))

	require.NoError(t, s.ClearAll(ctx))
	require.NoError(t, s.ClearAll(ctx))

	for _, k := range credentials.SessionKeys() {
		_, ok := s.Get(ctx, k)
		require.False(t, ok, k)
	}
	require.True(t, mr.Exists("test:browser-2:access_token"))
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	_, b := setupBackend(t)
	s := b.Scope("browser-1")

	require.NoError(t, s.PutAll(ctx, credentials.DefaultTTLs().SessionEntries("acc", "ref", "hr")...))
	require.NoError(t, s.Clear(ctx, credentials.UserRoleKey))

	_, ok := s.Get(ctx, credentials.UserRoleKey)
	require.False(t, ok)
	_, ok = s.Get(ctx, credentials.AccessTokenKey)
	require.True(t, ok)
}

func TestStore_ReadFailureIsAbsent(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	s := redisstore.New(client, "test").Scope("browser-1")
	require.NoError(t, s.Put(ctx, credentials.AccessTokenKey, "acc", time.Hour))

	mr.Close()

	_, ok := s.Get(ctx, credentials.AccessTokenKey)
	require.False(t, ok)
	require.Error(t, s.Put(ctx, credentials.AccessTokenKey, "acc", time.Hour))
}

func TestDial(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	b, err := redisstore.Dial(ctx, mr.Addr(), "", 0, "dial")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Scope("x").Put(ctx, credentials.UserRoleKey, "hr", time.Minute))
	require.True(t, mr.Exists("dial:x:user_role"))

	_, err = redisstore.Dial(ctx, "127.0.0.1:1", "", 0, "dial")
	require.Error(t, err)
}

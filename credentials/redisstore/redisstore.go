package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/referral-portal/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Backend keeps credentials in Redis, one key space per browser:
// <prefix>:<browserID>:<credential key>. Expiry is delegated to Redis TTLs.
type Backend struct {
	client redis.UniversalClient
	prefix string
}

// New wraps an existing client.
func New(client redis.UniversalClient, prefix string) *Backend {
	return &Backend{client: client, prefix: prefix}
}

// Dial connects to addr and checks the connection with PING.
func Dial(ctx context.Context, addr, password string, db int, prefix string) (*Backend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("[redisstore Dial] ping %s: %w", addr, err)
	}
	return New(client, prefix), nil
}

// Close releases the underlying client.
func (b *Backend) Close() error {
	return b.client.Close()
}

// Scope returns the Store for one browser.
func (b *Backend) Scope(browserID string) credentials.Store {
	return &store{backend: b, browserID: browserID}
}

func (b *Backend) key(browserID string, key credentials.Key) string {
	return fmt.Sprintf("%s:%s:%s", b.prefix, browserID, key)
}

type store struct {
	backend   *Backend
	browserID string
}

var _ credentials.Store = (*store)(nil)

func (s *store) Get(ctx context.Context, key credentials.Key) (string, bool) {
	v, err := s.backend.client.Get(ctx, s.backend.key(s.browserID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		log.Err(err).Str("key", string(key)).Msg("Credential store read failed, treating as absent")
		return "", false
	}
	return v, true
}

func (s *store) Put(ctx context.Context, key credentials.Key, value string, ttl time.Duration) error {
	if err := s.backend.client.Set(ctx, s.backend.key(s.browserID, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("[redisstore Put] %s: %w", key, err)
	}
	return nil
}

// PutAll writes every entry inside one MULTI/EXEC transaction.
func (s *store) PutAll(ctx context.Context, entries ...credentials.Entry) error {
	_, err := s.backend.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, e := range entries {
			pipe.Set(ctx, s.backend.key(s.browserID, e.Key), e.Value, e.TTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("[redisstore PutAll] %w", err)
	}
	return nil
}

func (s *store) Clear(ctx context.Context, key credentials.Key) error {
	if err := s.backend.client.Del(ctx, s.backend.key(s.browserID, key)).Err(); err != nil {
		return fmt.Errorf("[redisstore Clear] %s: %w", key, err)
	}
	return nil
}

func (s *store) ClearAll(ctx context.Context) error {
	keys := make([]string, 0, len(credentials.SessionKeys()))
	for _, k := range credentials.SessionKeys() {
		keys = append(keys, s.backend.key(s.browserID, k))
	}
	if err := s.backend.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("[redisstore ClearAll] %w", err)
	}
	return nil
}

package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/referral-portal/credentials"
)

type item struct {
	value     string
	expiresAt time.Time
}

// Backend is an in-memory credential backend holding one key space per browser.
type Backend struct {
	mu      sync.RWMutex
	scopes  map[string]map[credentials.Key]item // browserID -> key -> item
	nowTime func() time.Time
}

// Option configures a Backend.
type Option func(*Backend)

// WithNowTime sets the clock used for expiry (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(b *Backend) {
		b.nowTime = nowFunc
	}
}

// New creates an empty in-memory backend.
func New(options ...Option) *Backend {
	b := &Backend{
		scopes:  make(map[string]map[credentials.Key]item),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// Scope returns the Store for one browser.
func (b *Backend) Scope(browserID string) credentials.Store {
	return &store{backend: b, scope: browserID}
}

// Purge drops every expired entry and empty scope. Expired entries are already
// invisible to readers, this only reclaims memory.
func (b *Backend) Purge() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.nowTime()
	purged := 0
	for scope, items := range b.scopes {
		for k, it := range items {
			if !now.Before(it.expiresAt) {
				delete(items, k)
				purged++
			}
		}
		if len(items) == 0 {
			delete(b.scopes, scope)
		}
	}
	return purged
}

type store struct {
	backend *Backend
	scope   string
}

var _ credentials.Store = (*store)(nil)

func (s *store) Get(_ context.Context, key credentials.Key) (string, bool) {
	b := s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	it, ok := b.scopes[s.scope][key]
	if !ok || !b.nowTime().Before(it.expiresAt) {
		return "", false
	}
	return it.value, true
}

func (s *store) Put(ctx context.Context, key credentials.Key, value string, ttl time.Duration) error {
	return s.PutAll(ctx, credentials.Entry{Key: key, Value: value, TTL: ttl})
}

func (s *store) PutAll(_ context.Context, entries ...credentials.Entry) error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	items, ok := b.scopes[s.scope]
	if !ok {
		items = make(map[credentials.Key]item)
		b.scopes[s.scope] = items
	}

	now := b.nowTime()
	for _, e := range entries {
		items[e.Key] = item{value: e.Value, expiresAt: now.Add(e.TTL)}
	}
	return nil
}

func (s *store) Clear(_ context.Context, key credentials.Key) error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	items, ok := b.scopes[s.scope]
	if !ok {
		return nil // Already doesn't exist, no error
	}
	delete(items, key)
	if len(items) == 0 {
		delete(b.scopes, s.scope)
	}
	return nil
}

func (s *store) ClearAll(_ context.Context) error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.scopes, s.scope)
	return nil
}

// Package cookiestore keeps the credentials in browser cookies, one cookie per key,
// using the same names and lifetimes a browser-side client would.
//
// A Store is bound to a single request/response pair. Writes made while handling the
// request are visible to later reads on the same Store, so a handler that logs in and
// then resolves the session sees the new values before the browser does.
package cookiestore

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/jrsteele09/referral-portal/credentials"
)

// Options controls the attributes of the cookies written.
type Options struct {
	Path     string
	Domain   string
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// DefaultOptions returns Path=/, HttpOnly, SameSite=Lax.
func DefaultOptions() Options {
	return Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

type pending struct {
	value   string
	deleted bool
}

// Store reads cookies from r and writes Set-Cookie headers to w.
type Store struct {
	w       http.ResponseWriter
	r       *http.Request
	opts    Options
	nowTime func() time.Time

	mu      sync.Mutex
	written map[credentials.Key]pending
}

var _ credentials.Store = (*Store)(nil)

// New binds a Store to one request.
func New(w http.ResponseWriter, r *http.Request, opts Options) *Store {
	if opts.Path == "" {
		opts.Path = "/"
	}
	return &Store{
		w:       w,
		r:       r,
		opts:    opts,
		nowTime: time.Now,
		written: make(map[credentials.Key]pending),
	}
}

func (s *Store) Get(_ context.Context, key credentials.Key) (string, bool) {
	s.mu.Lock()
	p, ok := s.written[key]
	s.mu.Unlock()
	if ok {
		if p.deleted || p.value == "" {
			return "", false
		}
		return p.value, true
	}

	// The browser drops expired cookies, so anything it sends is live.
	c, err := s.r.Cookie(string(key))
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (s *Store) Put(ctx context.Context, key credentials.Key, value string, ttl time.Duration) error {
	return s.PutAll(ctx, credentials.Entry{Key: key, Value: value, TTL: ttl})
}

// PutAll adds every Set-Cookie header to the same response, so the browser applies them together.
func (s *Store) PutAll(_ context.Context, entries ...credentials.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowTime()
	for _, e := range entries {
		http.SetCookie(s.w, s.cookie(e.Key, e.Value, e.TTL, now))
		s.written[e.Key] = pending{value: e.Value}
	}
	return nil
}

func (s *Store) Clear(_ context.Context, key credentials.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.erase(key)
	return nil
}

func (s *Store) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range credentials.SessionKeys() {
		s.erase(k)
	}
	return nil
}

func (s *Store) erase(key credentials.Key) {
	c := s.cookie(key, "", 0, time.Time{})
	c.MaxAge = -1
	c.Expires = time.Unix(1, 0).UTC()
	http.SetCookie(s.w, c)
	s.written[key] = pending{deleted: true}
}

func (s *Store) cookie(key credentials.Key, value string, ttl time.Duration, now time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     string(key),
		Value:    value,
		Path:     s.opts.Path,
		Domain:   s.opts.Domain,
		Secure:   s.opts.Secure,
		HttpOnly: s.opts.HttpOnly,
		SameSite: s.opts.SameSite,
	}
	if ttl > 0 {
		c.MaxAge = int(ttl.Seconds())
		c.Expires = now.Add(ttl).UTC()
	}
	return c
}

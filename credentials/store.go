// Package credentials persists the session tokens and role under named keys,
// each with its own expiry.
//
// A Store never fails observably on read: a missing entry, an expired entry and
// an unreadable entry all come back as absent. Writes return an error so that the
// login flow can report a failed session save instead of redirecting.
package credentials

import (
	"context"
	"time"
)

// Key names one stored credential. The names are the external contract shared
// with any other client reading the same cookies.
type Key string

const (
	AccessTokenKey  Key = "access_token"
	RefreshTokenKey Key = "refresh_token"
	UserRoleKey     Key = "user_role"
)

const (
	DefaultAccessTokenTTL  = 7 * 24 * time.Hour
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
	DefaultRoleTTL         = 7 * 24 * time.Hour
)

// SessionKeys lists every key the session occupies.
func SessionKeys() []Key {
	return []Key{AccessTokenKey, RefreshTokenKey, UserRoleKey}
}

// Entry is one value written as part of a batch.
type Entry struct {
	Key   Key
	Value string
	TTL   time.Duration
}

// Store is the sole owner of persisted session state.
type Store interface {
	// Get returns the value if present and not expired.
	Get(ctx context.Context, key Key) (string, bool)
	// Put stores value under key, replacing whatever was there.
	Put(ctx context.Context, key Key, value string, ttl time.Duration) error
	// PutAll stores all entries as one unit: a reader sees either none or all of them.
	PutAll(ctx context.Context, entries ...Entry) error
	// Clear removes key immediately, regardless of expiry.
	Clear(ctx context.Context, key Key) error
	// ClearAll removes every session key.
	ClearAll(ctx context.Context) error
}

// TTLs holds the expiry applied to each session key.
type TTLs struct {
	AccessToken  time.Duration
	RefreshToken time.Duration
	Role         time.Duration
}

// DefaultTTLs returns 7 days for the access token and role and 30 days for the refresh token.
func DefaultTTLs() TTLs {
	return TTLs{
		AccessToken:  DefaultAccessTokenTTL,
		RefreshToken: DefaultRefreshTokenTTL,
		Role:         DefaultRoleTTL,
	}
}

// SessionEntries builds the three-key batch written on a successful login.
func (t TTLs) SessionEntries(accessToken, refreshToken, role string) []Entry {
	return []Entry{
		{Key: AccessTokenKey, Value: accessToken, TTL: t.AccessToken},
		{Key: RefreshTokenKey, Value: refreshToken, TTL: t.RefreshToken},
		{Key: UserRoleKey, Value: role, TTL: t.Role},
	}
}

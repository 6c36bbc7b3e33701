package server

import (
	"context"
	"net/http"
	"time"

	"github.com/jrsteele09/referral-portal/credentials"
	"github.com/jrsteele09/referral-portal/credentials/cookiestore"
	apperrors "github.com/jrsteele09/referral-portal/internal/errors"
)

// StoreProvider hands out the credential store belonging to the browser making r.
type StoreProvider interface {
	Store(w http.ResponseWriter, r *http.Request) credentials.Store
}

// CookieStores keeps credentials in the browser's own cookies.
type CookieStores struct {
	Options cookiestore.Options
	// ForceSecure sets the Secure attribute even when the request came over plain HTTP.
	ForceSecure bool
}

func (c CookieStores) Store(w http.ResponseWriter, r *http.Request) credentials.Store {
	opts := c.Options
	if c.ForceSecure || getScheme(r) == "https" {
		opts.Secure = true
	}
	return cookiestore.New(w, r, opts)
}

// Scoper is a server-side backend partitioned by browser id.
type Scoper interface {
	Scope(browserID string) credentials.Store
}

// ScopedStores keys a server-side backend by the browser id cookie.
type ScopedStores struct {
	Backend Scoper
}

func (s ScopedStores) Store(_ http.ResponseWriter, r *http.Request) credentials.Store {
	bid := browserID(r)
	if bid == "" {
		return unidentifiedStore{}
	}
	return s.Backend.Scope(bid)
}

// unidentifiedStore is used when a request reached a handler without a browser id.
// It reads as empty and refuses writes, so browsers never share a scope.
type unidentifiedStore struct{}

func (unidentifiedStore) Get(context.Context, credentials.Key) (string, bool) { return "", false }

func (unidentifiedStore) Put(context.Context, credentials.Key, string, time.Duration) error {
	return apperrors.ErrCredentialStoreIO
}

func (unidentifiedStore) PutAll(context.Context, ...credentials.Entry) error {
	return apperrors.ErrCredentialStoreIO
}

func (unidentifiedStore) Clear(context.Context, credentials.Key) error { return nil }

func (unidentifiedStore) ClearAll(context.Context) error { return nil }

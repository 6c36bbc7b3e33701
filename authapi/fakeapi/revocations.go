package fakeapi

import (
	"sync"
	"time"
)

// revocations is the refresh token blacklist, keyed by jti. Entries are kept
// until the token would have expired anyway.
type revocations struct {
	lock    sync.RWMutex
	revoked map[string]time.Time
}

func newRevocations() *revocations {
	return &revocations{revoked: make(map[string]time.Time)}
}

func (r *revocations) Revoke(jti string, expiresAt time.Time) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.revoked[jti] = expiresAt
}

func (r *revocations) IsRevoked(jti string) bool {
	r.lock.RLock()
	defer r.lock.RUnlock()
	_, ok := r.revoked[jti]
	return ok
}

// Purge drops entries whose token has expired.
func (r *revocations) Purge(now time.Time) int {
	r.lock.Lock()
	defer r.lock.Unlock()

	n := 0
	for jti, exp := range r.revoked {
		if !now.Before(exp) {
			delete(r.revoked, jti)
			n++
		}
	}
	return n
}

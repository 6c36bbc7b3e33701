package session

import (
	"context"

	"github.com/jrsteele09/referral-portal/credentials"
	"github.com/jrsteele09/referral-portal/users"
)

// State is the authentication state derived from the credential store.
type State int

const (
	// StateAnonymous: no usable access token and role.
	StateAnonymous State = iota
	// StateAuthenticated: access token and role both present.
	StateAuthenticated
	// StateUnresolved: a login or logout for this browser is still in flight.
	StateUnresolved
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnresolved:
		return "unresolved"
	default:
		return "anonymous"
	}
}

// Session is a point-in-time view of the stored credentials. It is never persisted
// as one object and never mutated by the resolver's callers.
type Session struct {
	AccessToken  string
	RefreshToken string
	Role         users.Role
	// RawRole is the stored role string, kept so an unknown role is distinguishable from none.
	RawRole string
	State   State
}

// HasAccessToken reports whether an access token is present.
func (s Session) HasAccessToken() bool {
	return s.AccessToken != ""
}

// HasRole reports whether a role value is present, known or not.
func (s Session) HasRole() bool {
	return s.RawRole != ""
}

// Authenticated is true only when both the token and a role are present.
func (s Session) Authenticated() bool {
	return s.State == StateAuthenticated
}

// Anonymous returns the empty, resolved session.
func Anonymous() Session {
	return Session{State: StateAnonymous}
}

// FromValues derives a Session from raw stored values, applying the rule that a
// token without a role or a role without a token is anonymous.
func FromValues(accessToken, refreshToken, rawRole string) Session {
	s := Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		RawRole:      rawRole,
		Role:         users.ParseRole(rawRole),
		State:        StateAnonymous,
	}
	if s.HasAccessToken() && s.HasRole() {
		s.State = StateAuthenticated
	}
	return s
}

// Resolver composes the current Session from a credential store.
type Resolver struct {
	store   credentials.Store
	pending func() bool
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithPending reports the session as unresolved while pending returns true.
func WithPending(pending func() bool) ResolverOption {
	return func(r *Resolver) {
		r.pending = pending
	}
}

// NewResolver creates a Resolver over store.
func NewResolver(store credentials.Store, options ...ResolverOption) *Resolver {
	r := &Resolver{store: store}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Current re-reads the store on every call; nothing is cached here.
func (r *Resolver) Current(ctx context.Context) Session {
	if r.pending != nil && r.pending() {
		return Session{State: StateUnresolved}
	}
	access, _ := r.store.Get(ctx, credentials.AccessTokenKey)
	refresh, _ := r.store.Get(ctx, credentials.RefreshTokenKey)
	role, _ := r.store.Get(ctx, credentials.UserRoleKey)
	return FromValues(access, refresh, role)
}

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/referral-portal/credentials"
	"github.com/jrsteele09/referral-portal/credentials/memstore"
	"github.com/jrsteele09/referral-portal/session"
	"github.com/jrsteele09/referral-portal/users"
	"github.com/stretchr/testify/require"
)

func TestFromValues(t *testing.T) {
	tests := []struct {
		name                  string
		access, refresh, role string
		wantState             session.State
		wantRole              users.Role
	}{
		{"empty", "", "", "", session.StateAnonymous, users.RoleUnknown},
		{"token without role", "acc", "ref", "", session.StateAnonymous, users.RoleUnknown},
		{"role without token", "", "ref", "hr", session.StateAnonymous, users.RoleHR},
		{"employee", "acc", "ref", "employee", session.StateAuthenticated, users.RoleEmployee},
		{"hr without refresh", "acc", "", "hr", session.StateAuthenticated, users.RoleHR},
		{"unknown role", "acc", "ref", "admin", session.StateAuthenticated, users.RoleUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := session.FromValues(tt.access, tt.refresh, tt.role)
			require.Equal(t, tt.wantState, s.State)
			require.Equal(t, tt.wantRole, s.Role)
		})
	}
}

func TestResolver_RereadsEveryCall(t *testing.T) {
	ctx := context.Background()
	backend := memstore.New()
	store := backend.Scope("browser-1")
	r := session.NewResolver(store)

	require.Equal(t, session.StateAnonymous, r.Current(ctx).State)

	require.NoError(t, store.PutAll(ctx, credentials.DefaultTTLs().SessionEntries("acc", "ref", "hr")...))
	s := r.Current(ctx)
	require.True(t, s.Authenticated())
	require.Equal(t, users.RoleHR, s.Role)
	require.Equal(t, "acc", s.AccessToken)
	require.Equal(t, "ref", s.RefreshToken)

	// A change through another handle on the same store (another tab) is seen on next read.
	require.NoError(t, backend.Scope("browser-1").Clear(ctx, credentials.AccessTokenKey))
	require.Equal(t, session.StateAnonymous, r.Current(ctx).State)
}

func TestResolver_ExpiryIsAbsence(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := memstore.New(memstore.WithNowTime(func() time.Time { return now })).Scope("b")
	r := session.NewResolver(store)

	require.NoError(t, store.PutAll(ctx, credentials.DefaultTTLs().SessionEntries("acc", "ref", "employee")...))
	require.True(t, r.Current(ctx).Authenticated())

	now = now.Add(8 * 24 * time.Hour)
	s := r.Current(ctx)
	require.Equal(t, session.StateAnonymous, s.State)
	require.Equal(t, "ref", s.RefreshToken)
}

func TestResolver_Pending(t *testing.T) {
	ctx := context.Background()
	store := memstore.New().Scope("b")
	require.NoError(t, store.PutAll(ctx, credentials.DefaultTTLs().SessionEntries("acc", "ref", "employee")...))

	tracker := session.NewTracker()
	r := session.NewResolver(store, session.WithPending(tracker.PendingFunc("b")))

	end, ok := tracker.Begin("b")
	require.True(t, ok)
	require.Equal(t, session.StateUnresolved, r.Current(ctx).State)

	end()
	require.Equal(t, session.StateAuthenticated, r.Current(ctx).State)
}

func TestTracker(t *testing.T) {
	tracker := session.NewTracker()

	end, ok := tracker.Begin("a")
	require.True(t, ok)
	require.True(t, tracker.Pending("a"))
	require.False(t, tracker.Pending("b"))

	_, ok = tracker.Begin("a")
	require.False(t, ok, "second flow for the same browser is rejected")

	endB, ok := tracker.Begin("b")
	require.True(t, ok)
	endB()

	end()
	end()
	require.False(t, tracker.Pending("a"))

	_, ok = tracker.Begin("a")
	require.True(t, ok)
}

func TestState_String(t *testing.T) {
	require.Equal(t, "anonymous", session.StateAnonymous.String())
	require.Equal(t, "authenticated", session.StateAuthenticated.String())
	require.Equal(t, "unresolved", session.StateUnresolved.String())
}

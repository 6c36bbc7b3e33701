package cookiestore_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/referral-portal/credentials"
	"github.com/jrsteele09/referral-portal/credentials/cookiestore"
	"github.com/stretchr/testify/require"
)

func cookiesByName(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestStore_PutAllWritesAllCookies(t *testing.T) {
	ctx := context.Background()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	s := cookiestore.New(rec, req, cookiestore.DefaultOptions())

	require.NoError(t, s.PutAll(ctx, credentials.DefaultTTLs().SessionEntries("acc", "ref", "hr")...))

	cookies := cookiesByName(rec)
	require.Len(t, cookies, 3)

	require.Equal(t, "acc", cookies["access_token"].Value)
	require.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookies["access_token"].MaxAge)
	require.Equal(t, "ref", cookies["refresh_token"].Value)
	require.Equal(t, int((30 * 24 * time.Hour).Seconds()), cookies["refresh_token"].MaxAge)
	require.Equal(t, "hr", cookies["user_role"].Value)
	require.Equal(t, "/", cookies["user_role"].Path)
	require.True(t, cookies["user_role"].HttpOnly)

	// Read-after-write within the same request.
	v, ok := s.Get(ctx, credentials.UserRoleKey)
	require.True(t, ok)
	require.Equal(t, "hr", v)
}

func TestStore_ReadsRequestCookies(t *testing.T) {
	ctx := context.Background()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "acc"})
	req.AddCookie(&http.Cookie{Name: "user_role", Value: "employee"})
	s := cookiestore.New(httptest.NewRecorder(), req, cookiestore.DefaultOptions())

	v, ok := s.Get(ctx, credentials.AccessTokenKey)
	require.True(t, ok)
	require.Equal(t, "acc", v)

	_, ok = s.Get(ctx, credentials.RefreshTokenKey)
	require.False(t, ok)
}

func TestStore_ClearAllExpiresCookies(t *testing.T) {
	ctx := context.Background()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "acc"})
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "ref"})
	req.AddCookie(&http.Cookie{Name: "user_role", Value: "hr"})
	s := cookiestore.New(rec, req, cookiestore.Options{Secure: true})

	require.NoError(t, s.ClearAll(ctx))

	for _, k := range credentials.SessionKeys() {
		_, ok := s.Get(ctx, k)
		require.False(t, ok, "request cookie %s must be shadowed by the clear", k)
	}

	cookies := cookiesByName(rec)
	require.Len(t, cookies, 3)
	for _, c := range cookies {
		require.Equal(t, -1, c.MaxAge)
		require.Empty(t, c.Value)
		require.True(t, c.Secure)
		require.Equal(t, "/", c.Path)
	}
}

func TestStore_ClearSingleKey(t *testing.T) {
	ctx := context.Background()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "acc"})
	req.AddCookie(&http.Cookie{Name: "user_role", Value: "hr"})
	s := cookiestore.New(httptest.NewRecorder(), req, cookiestore.DefaultOptions())

	require.NoError(t, s.Clear(ctx, credentials.AccessTokenKey))
	_, ok := s.Get(ctx, credentials.AccessTokenKey)
	require.False(t, ok)
	_, ok = s.Get(ctx, credentials.UserRoleKey)
	require.True(t, ok)
}

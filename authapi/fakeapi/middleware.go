package fakeapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/referral-portal/users"
)

type contextKey string

const accountKey contextKey = "account"

func accountFrom(r *http.Request) *users.Account {
	account, _ := r.Context().Value(accountKey).(*users.Account)
	return account
}

// authenticated requires a valid, unrevoked access token for an active user.
func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Authentication credentials were not provided."})
			return
		}
		claims, err := s.issuer.Parse(raw, accessTokenType)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Given token not valid for any token type"})
			return
		}
		id, err := claims.UserID()
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Token contained no recognizable user identification"})
			return
		}
		account, err := s.users.GetByID(id)
		if err != nil || !account.IsActive {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "User not found"})
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), accountKey, account)))
	}
}

func (s *Server) hrOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if account := accountFrom(r); account == nil || account.Role() != users.RoleHR {
			writeJSON(w, http.StatusForbidden, map[string]any{"error": "Access denied. HR access required."})
			return
		}
		next(w, r)
	}
}

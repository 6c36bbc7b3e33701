package server

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

const (
	// browserIDCookieName identifies the browser to server-side credential stores.
	browserIDCookieName = "bid"
	browserIDMaxAge     = 365 * 24 * 60 * 60
)

type contextKey string

const (
	browserIDContextKey contextKey = "browserID"
	sessionContextKey   contextKey = "session"
)

// BrowserIDMiddleware makes sure every request carries a browser id, issuing a new
// cookie when the browser sent none.
func (s *Server) BrowserIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bid := ""
		if c, err := r.Cookie(browserIDCookieName); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				bid = c.Value
			}
		}
		if bid == "" {
			bid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     browserIDCookieName,
				Value:    bid,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.secureCookies(r),
				SameSite: http.SameSiteLaxMode,
				MaxAge:   browserIDMaxAge,
			})
		}
		next(w, r.WithContext(context.WithValue(r.Context(), browserIDContextKey, bid)))
	}
}

func browserID(r *http.Request) string {
	bid, _ := r.Context().Value(browserIDContextKey).(string)
	return bid
}

func (s *Server) secureCookies(r *http.Request) bool {
	return s.config.GetSecureCookies() || getScheme(r) == "https"
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects. A non-empty email is
// carried along so the login form can be refilled.
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg, email string) {
	q := url.Values{}
	q.Set("error", errorMsg)
	if email != "" {
		q.Set("email", email)
	}
	redirectSuccess(w, r, path+"?"+q.Encode())
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

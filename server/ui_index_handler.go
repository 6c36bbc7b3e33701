package server

import (
	"net/http"
)

// IndexHandler sends the browser to the home page of its role, or to login.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.currentSession(w, r)
		if !sess.Authenticated() {
			redirectSuccess(w, r, RouteLogin)
			return
		}
		redirectSuccess(w, r, s.guard.DefaultPathForRole(sess.Role))
	}
}

// NotFoundHandler redirects unknown paths to the index.
func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		redirectSuccess(w, r, "/")
	}
}

// PendingHandler renders the neutral loading page shown while a sign-in or sign-out
// for this browser is still running. The browser retries after a second.
func (s *Server) PendingHandler() http.HandlerFunc {
	pendingTmpl := mustParseTemplate("pending.html")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Refresh", pendingRefreshSeconds)
		w.Header().Set("Cache-Control", "no-store")
		s.renderHTML(w, pendingTmpl, http.StatusOK, s.page(r, false))
	}
}

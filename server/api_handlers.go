package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// SessionResponse describes the browser's session to scripts on the page.
type SessionResponse struct {
	State         string `json:"state"`
	Authenticated bool   `json:"authenticated"`
	Role          string `json:"role,omitempty"`
	Home          string `json:"home"`
}

// SessionAPIHandler reports the current session (GET /api/session). Tokens are never included.
func (s *Server) SessionAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.currentSession(w, r)
		resp := SessionResponse{
			State:         sess.State.String(),
			Authenticated: sess.Authenticated(),
			Home:          RouteLogin,
		}
		if sess.Authenticated() {
			resp.Role = sess.RawRole
			resp.Home = s.guard.DefaultPathForRole(sess.Role)
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		w.Header().Set("Cache-Control", "no-store")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Err(err).Msg("[Server SessionAPIHandler] failed to encode response")
		}
	}
}

// PreflightHandler answers CORS preflight requests; CorsMiddleware writes the headers.
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}

package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/referral-portal/guard"
	"github.com/jrsteele09/referral-portal/session"
	"github.com/rs/zerolog/log"
)

// pendingRefreshSeconds is how soon the waiting page asks the browser to retry.
const pendingRefreshSeconds = "1"

// currentSession re-reads the credentials for the browser making r. While a login or
// logout for that browser is in flight the session is unresolved.
func (s *Server) currentSession(w http.ResponseWriter, r *http.Request) session.Session {
	store := s.stores.Store(w, r)
	resolver := session.NewResolver(store, session.WithPending(s.tracker.PendingFunc(browserID(r))))
	return resolver.Current(r.Context())
}

// sessionFromContext returns the session RequireRoles resolved for this request.
func sessionFromContext(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(session.Session)
	return sess, ok
}

// RequireRoles guards a page: it renders only for a session whose role is in req,
// redirects everyone else, and shows a waiting page while the session is unresolved.
func (s *Server) RequireRoles(req *guard.Requirement) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sess := s.currentSession(w, r)
			decision := s.guard.Decide(req, sess)
			s.metrics.guardDecision(decision.Outcome)

			switch decision.Outcome {
			case guard.OutcomeWait:
				s.renderPending(w, r)
			case guard.OutcomeRedirect:
				log.Debug().
					Str("path", r.URL.Path).
					Str("state", sess.State.String()).
					Str("to", decision.RedirectTo).
					Msg("[Server RequireRoles] redirecting")
				redirectSuccess(w, r, decision.RedirectTo)
			default:
				next(w, r.WithContext(context.WithValue(r.Context(), sessionContextKey, sess)))
			}
		}
	}
}

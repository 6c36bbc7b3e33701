package server

import (
	"errors"
	"net/http"

	"github.com/jrsteele09/referral-portal/auth"
	"github.com/jrsteele09/referral-portal/guard"
	"github.com/jrsteele09/referral-portal/session"
	"github.com/rs/zerolog/log"
)

// pageData is shared by every page rendered through the layout.
type pageData struct {
	AppName  string
	SignedIn bool
	Error    string
	Success  string
}

func (s *Server) page(r *http.Request, signedIn bool) pageData {
	q := r.URL.Query()
	return pageData{
		AppName:  s.config.GetAppName(),
		SignedIn: signedIn,
		Error:    q.Get("error"),
		Success:  q.Get("success"),
	}
}

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	pageData
	Email string // Preserve email on error
}

// LoginPageHandler displays the login form (GET /login). A browser that already
// holds a session is sent on to its role's home, and one with a sign-in or sign-out
// still running gets the waiting page.
func (s *Server) LoginPageHandler() http.HandlerFunc {
	loginTmpl := mustParseTemplate("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.currentSession(w, r)
		if sess.State == session.StateUnresolved {
			s.renderPending(w, r)
			return
		}
		decision := s.guard.CheckPublic(sess)
		if decision.Outcome == guard.OutcomeRedirect {
			redirectSuccess(w, r, decision.RedirectTo)
			return
		}

		data := LoginPageData{
			pageData: s.page(r, false),
			Email:    r.URL.Query().Get("email"),
		}
		s.renderHTML(w, loginTmpl, http.StatusOK, data)
	}
}

// LoginSubmissionHandler processes the login form (POST /auth/login).
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		creds := auth.Credentials{
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}

		end, ok := s.tracker.Begin(browserID(r))
		if !ok {
			redirectWithError(w, r, RouteLogin, auth.UserMessage(auth.ErrLoginInProgress), creds.Email)
			return
		}
		defer end()

		sess, err := s.auth.Login(r.Context(), s.stores.Store(w, r), creds)
		if err != nil {
			logLoginFailure(err)
			redirectWithError(w, r, RouteLogin, auth.UserMessage(err), creds.Email)
			return
		}

		redirectSuccess(w, r, s.guard.DefaultPathForRole(sess.Role))
	}
}

func logLoginFailure(err error) {
	var rejected *auth.RejectedError
	var input *auth.InputError
	switch {
	case errors.As(err, &rejected), errors.As(err, &input):
		log.Info().Err(err).Msg("[Server LoginSubmissionHandler] login refused")
	default:
		log.Err(err).Msg("[Server LoginSubmissionHandler] login failed")
	}
}

// LogoutHandler ends the session (POST /auth/logout). It always lands on the login
// page, even when the API could not be told. There is no GET form, so a cross-site
// link cannot sign the user out.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		end, ok := s.tracker.Begin(browserID(r))
		if !ok {
			s.renderPending(w, r)
			return
		}
		defer end()

		s.auth.Logout(r.Context(), s.stores.Store(w, r))
		redirectSuccess(w, r, RouteLogin)
	}
}

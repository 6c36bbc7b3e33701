// Package fakeapi is an in-memory implementation of the Authentication and Referral
// API. It backs the development server in cmd/devapi and the integration tests of the
// packages that call the API.
package fakeapi

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/referral-portal/authapi"
	"github.com/jrsteele09/referral-portal/referrals"
	"github.com/jrsteele09/referral-portal/users"
	fakeuserrepo "github.com/jrsteele09/referral-portal/users/repofake"
	"github.com/rs/zerolog/log"
)

const (
	DefaultAccessTokenTTL  = 7 * 24 * time.Hour
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// Server serves the API routes over its user repo and in-memory referrals.
type Server struct {
	users       users.Repo
	referrals   *referralStore
	revocations *revocations
	issuer      *Issuer
	nowTime     func() time.Time

	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	logoutCalls atomic.Int64
}

// Option configures a Server.
type Option func(*Server)

// WithSecret sets the HS256 signing key. A random key is used otherwise.
func WithSecret(secret []byte) Option {
	return func(s *Server) {
		s.secret = secret
	}
}

// WithNowTime replaces the clock used for token issue and expiry.
func WithNowTime(nowTime func() time.Time) Option {
	return func(s *Server) {
		s.nowTime = nowTime
	}
}

// WithUserRepo replaces the default in-memory user repo.
func WithUserRepo(repo users.Repo) Option {
	return func(s *Server) {
		s.users = repo
	}
}

// WithTokenTTLs sets the lifetimes of issued tokens.
func WithTokenTTLs(access, refresh time.Duration) Option {
	return func(s *Server) {
		s.accessTTL = access
		s.refreshTTL = refresh
	}
}

// New creates a Server.
func New(options ...Option) *Server {
	s := &Server{
		users:       fakeuserrepo.NewFakeUserRepo(),
		referrals:   newReferralStore(),
		revocations: newRevocations(),
		nowTime:     time.Now,
		accessTTL:   DefaultAccessTokenTTL,
		refreshTTL:  DefaultRefreshTokenTTL,
	}
	for _, opt := range options {
		opt(s)
	}
	if len(s.secret) == 0 {
		s.secret = []byte(uuid.New().String())
	}
	s.issuer = NewIssuer(s.secret, s.accessTTL, s.refreshTTL, s.nowTime)
	return s
}

// Users returns the server's user repo.
func (s *Server) Users() users.Repo {
	return s.users
}

// Issuer returns the token issuer, for tests that need to mint or inspect tokens.
func (s *Server) Issuer() *Issuer {
	return s.issuer
}

// AddUser stores a user with the given password and returns the stored account.
func (s *Server) AddUser(user users.User, password string) (*users.Account, error) {
	account, err := users.SeedUser{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Type:      user.Type,
		Password:  password,
	}.Account(s.nowTime())
	if err != nil {
		return nil, err
	}
	account.EmployeeID = user.EmployeeID
	if user.FullName != "" {
		account.FullName = user.FullName
	}
	if err := s.users.Upsert(account); err != nil {
		return nil, err
	}
	return account, nil
}

// IsRevoked reports whether a refresh token has been blacklisted by logout.
func (s *Server) IsRevoked(refreshToken string) bool {
	claims, err := s.issuer.Parse(refreshToken, refreshTokenType)
	if err != nil {
		return false
	}
	return s.revocations.IsRevoked(claims.ID)
}

// LogoutCalls counts POST /logout/ requests received.
func (s *Server) LogoutCalls() int64 {
	return s.logoutCalls.Load()
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+authapi.LoginPath, s.loginHandler())
	mux.HandleFunc("POST "+authapi.LogoutPath, s.authenticated(s.logoutHandler()))
	mux.HandleFunc("POST "+authapi.SaveReferralPath, s.authenticated(s.saveReferralHandler()))
	mux.HandleFunc("GET "+authapi.ReferralListPath, s.authenticated(s.hrOnly(s.referralListHandler())))
	mux.HandleFunc("POST "+authapi.ReferralStatusChangePath, s.authenticated(s.hrOnly(s.statusChangeHandler())))
	mux.HandleFunc("GET "+resumePathPrefix+"{name}", s.resumeHandler())
	return mux
}

func (s *Server) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authapi.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "JSON parse error"})
			return
		}

		fieldErrs := map[string][]string{}
		if strings.TrimSpace(req.Email) == "" {
			fieldErrs["email"] = []string{"This field is required."}
		}
		if req.Password == "" {
			fieldErrs["password"] = []string{"This field is required."}
		}
		if len(fieldErrs) > 0 {
			writeJSON(w, http.StatusBadRequest, fieldErrs)
			return
		}

		account, err := s.users.GetByEmail(strings.TrimSpace(req.Email))
		if err != nil || !users.CheckPasswordHash(req.Password, account.PasswordHash) {
			writeJSON(w, http.StatusBadRequest, nonFieldError("Invalid credentials"))
			return
		}
		if !account.IsActive {
			writeJSON(w, http.StatusBadRequest, nonFieldError("User account is disabled"))
			return
		}

		access, err := s.issuer.CreateAccessToken(&account.User)
		if err != nil {
			log.Err(err).Msg("[fakeapi login] issuing access token")
			writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": "token issue failed"})
			return
		}
		refresh, err := s.issuer.CreateRefreshToken(&account.User)
		if err != nil {
			log.Err(err).Msg("[fakeapi login] issuing refresh token")
			writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": "token issue failed"})
			return
		}

		writeJSON(w, http.StatusOK, authapi.LoginResponse{
			User:         account.User,
			Tokens:       authapi.Tokens{Access: access, Refresh: refresh},
			DashboardURL: dashboardURL(account.Role()),
			Message:      "Login successful",
		})
	}
}

func (s *Server) logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logoutCalls.Add(1)

		var req authapi.LogoutRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Error during logout", "error": err.Error()})
				return
			}
		}
		if req.Refresh != "" {
			claims, err := s.issuer.Parse(req.Refresh, refreshTokenType)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Error during logout", "error": "Token is invalid or expired"})
				return
			}
			s.revocations.Revoke(claims.ID, claims.ExpiresAt.Time)
		}
		s.revocations.Purge(s.nowTime())
		writeJSON(w, http.StatusOK, map[string]any{"message": "Logout successful"})
	}
}

func (s *Server) saveReferralHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub referrals.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "JSON parse error"})
			return
		}
		if err := sub.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error(), "status": false})
			return
		}
		var resume []byte
		if sub.Resume != "" {
			decoded, err := base64.StdEncoding.DecodeString(sub.Resume)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string][]string{"resume": {"Invalid resume encoding."}})
				return
			}
			resume = decoded
		}

		account := accountFrom(r)
		s.referrals.Add(sub, resume, account.ID, s.nowTime())
		writeJSON(w, http.StatusCreated, referrals.Result{Message: "Referral saved successfully", Status: true})
	}
}

func (s *Server) referralListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := s.referrals.List()
		for i := range items {
			if items[i].Resume != "" {
				items[i].Resume = absoluteURL(r, items[i].Resume)
			}
		}
		writeJSON(w, http.StatusOK, authapi.ReferralListResponse{
			Data:    referrals.Group(items),
			Message: "Referral list fetched successfully",
			Status:  true,
		})
	}
}

func (s *Server) statusChangeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var upd referrals.StatusUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "JSON parse error"})
			return
		}
		if err := upd.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error(), "status": false})
			return
		}
		if err := s.referrals.UpdateStatus(upd.ID, upd.Status, upd.Notes); err != nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Referral not found", "status": false})
			return
		}
		writeJSON(w, http.StatusOK, referrals.Result{Message: "Status updated successfully", Status: true})
	}
}

// resumeHandler serves an uploaded resume. Like the media URLs of the real API it
// needs no token.
func (s *Server) resumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, ok := s.referrals.Resume(r.PathValue("name"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		if _, err := w.Write(data); err != nil {
			log.Err(err).Msg("[fakeapi resume] writing file")
		}
	}
}

// absoluteURL resolves path against the host the request was addressed to.
func absoluteURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: path}
	return u.String()
}

func dashboardURL(role users.Role) string {
	if role == users.RoleHR {
		return "/hr-dashboard/"
	}
	return "/employee-dashboard/"
}

func nonFieldError(msg string) map[string][]string {
	return map[string][]string{"non_field_errors": {msg}}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("[fakeapi] writing response")
	}
}

// Package server is the portal's web front: it renders the login, referral and HR
// pages, and consults the route guard on every protected navigation.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jrsteele09/referral-portal/auth"
	"github.com/jrsteele09/referral-portal/guard"
	"github.com/jrsteele09/referral-portal/internal/config"
	"github.com/jrsteele09/referral-portal/referrals"
	"github.com/jrsteele09/referral-portal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// ReferralAPI is the part of the Referral API the pages use.
type ReferralAPI interface {
	SaveReferral(ctx context.Context, accessToken string, sub referrals.Submission) (*referrals.Result, error)
	ListReferrals(ctx context.Context, accessToken string) (referrals.Lists, error)
	UpdateReferralStatus(ctx context.Context, accessToken string, upd referrals.StatusUpdate) (*referrals.Result, error)
}

// Deps holds the collaborators the Server needs.
type Deps struct {
	Auth      *auth.Service
	Referrals ReferralAPI
	Stores    StoreProvider
	// Registry receives the server metrics and is exposed on /metrics.
	Registry *prometheus.Registry
}

type Server struct {
	env       string
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	auth      *auth.Service
	referrals ReferralAPI
	stores    StoreProvider
	guard     *guard.Guard
	tracker   *session.Tracker
	limiter   *LoginRateLimiter
	registry  *prometheus.Registry
	metrics   *Metrics

	renderPending http.HandlerFunc
}

// Option configures a Server.
type Option func(*Server)

// WithTracker shares an in-flight flow tracker, mainly so tests can hold a browser busy.
func WithTracker(t *session.Tracker) Option {
	return func(s *Server) {
		s.tracker = t
	}
}

func New(cfg config.Config, deps Deps, options ...Option) (*Server, error) {
	if deps.Auth == nil {
		return nil, errors.New("[Server New] auth service is required")
	}
	if deps.Referrals == nil {
		return nil, errors.New("[Server New] referral API is required")
	}
	if deps.Stores == nil {
		return nil, errors.New("[Server New] store provider is required")
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}

	s := &Server{
		env:       cfg.GetEnv(),
		mux:       http.NewServeMux(),
		config:    cfg,
		auth:      deps.Auth,
		referrals: deps.Referrals,
		stores:    deps.Stores,
		guard:     guard.New(guard.DefaultPaths()),
		tracker:   session.NewTracker(),
		registry:  deps.Registry,
		metrics:   NewMetrics(deps.Registry),
	}
	for _, opt := range options {
		opt(s)
	}
	if cfg.GetEnableRateLimiting() {
		s.limiter = NewLoginRateLimiter(cfg.GetLoginRatePerMinute(), cfg.GetLoginRateBurst())
	}

	s.renderPending = s.PendingHandler()
	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close stops background work started by New.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Close()
	}
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, pattern := range s.routes {
		method, path, found := strings.Cut(pattern, " ")
		if !found {
			method, path = "", pattern
		}
		logRoute(method, path)
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%s] %s", colouredMethod(method), path)
}

// getScheme determines the scheme (http/https), honouring a proxy's X-Forwarded-Proto.
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}

// Package auth implements the login and logout flows over a credential store and
// the Authentication API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jrsteele09/referral-portal/authapi"
	"github.com/jrsteele09/referral-portal/credentials"
	"github.com/jrsteele09/referral-portal/session"
	"github.com/jrsteele09/referral-portal/users"
	"github.com/rs/zerolog/log"
)

const defaultLogoutNotifyTimeout = 5 * time.Second

// Service runs the login and logout flows. It holds no per-user state; the store
// passed to each call is the only place a session lives.
type Service struct {
	api                 API
	ttls                credentials.TTLs
	passwordPolicy      PasswordPolicy
	logoutNotifyTimeout time.Duration
	metrics             *Metrics
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithPasswordPolicy replaces the default minimum length check. nil disables it.
func WithPasswordPolicy(policy PasswordPolicy) ServiceOption {
	return func(s *Service) {
		s.passwordPolicy = policy
	}
}

// WithLogoutNotifyTimeout bounds the logout call to the API.
func WithLogoutNotifyTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.logoutNotifyTimeout = d
	}
}

// WithMetrics records flow outcomes.
func WithMetrics(m *Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a Service that writes sessions with the given TTLs.
func NewService(api API, ttls credentials.TTLs, options ...ServiceOption) (*Service, error) {
	if api == nil {
		return nil, errors.New("[NewService] api is required")
	}

	s := &Service{
		api:                 api,
		ttls:                ttls,
		passwordPolicy:      users.ValidatePasswordLength,
		logoutNotifyTimeout: defaultLogoutNotifyTimeout,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Login validates creds, authenticates against the API and, only when the API
// returns both tokens and a known role, writes the session to store in one batch.
// On any error the store is left untouched and the returned session is anonymous.
func (s *Service) Login(ctx context.Context, store credentials.Store, creds Credentials) (session.Session, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := validateCredentials(creds, s.passwordPolicy); err != nil {
		s.metrics.login("invalid_input")
		return session.Anonymous(), err
	}

	resp, err := s.api.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		err = classifyLoginError(err)
		s.metrics.login(loginOutcome(err))
		return session.Anonymous(), err
	}

	if resp.Tokens.Access == "" || resp.Tokens.Refresh == "" {
		s.metrics.login("invalid_response")
		return session.Anonymous(), fmt.Errorf("[auth Login] response is missing tokens: %w", ErrInvalidResponse)
	}
	role := resp.User.Role()
	if !role.Known() {
		s.metrics.login("unknown_role")
		return session.Anonymous(), fmt.Errorf("[auth Login] user type %q: %w", resp.User.Type, ErrUnknownRole)
	}

	entries := s.ttls.SessionEntries(resp.Tokens.Access, resp.Tokens.Refresh, role.String())
	if err := store.PutAll(ctx, entries...); err != nil {
		s.metrics.login("not_saved")
		return session.Anonymous(), fmt.Errorf("[auth Login] saving session: %w: %w", ErrSessionNotSaved, err)
	}

	s.metrics.login("success")
	log.Info().Int64("user_id", resp.User.ID).Str("role", role.String()).Msg("[auth Login] user signed in")
	return session.NewResolver(store).Current(ctx), nil
}

// Logout clears every session key first and then tells the API, so the local
// session ends even when the API cannot be reached. Calling it again, or with
// an already empty store, is harmless.
func (s *Service) Logout(ctx context.Context, store credentials.Store) {
	access, _ := store.Get(ctx, credentials.AccessTokenKey)
	refresh, _ := store.Get(ctx, credentials.RefreshTokenKey)

	if err := store.ClearAll(ctx); err != nil {
		log.Err(err).Msg("[auth Logout] clearing credentials")
	}

	if access == "" {
		s.metrics.logout(nil)
		return
	}

	notifyCtx := context.WithoutCancel(ctx)
	if s.logoutNotifyTimeout > 0 {
		var cancel context.CancelFunc
		notifyCtx, cancel = context.WithTimeout(notifyCtx, s.logoutNotifyTimeout)
		defer cancel()
	}

	err := s.api.Logout(notifyCtx, access, refresh)
	if err != nil {
		log.Warn().Err(err).Msg("[auth Logout] API was not notified")
	}
	s.metrics.logout(err)
}

func classifyLoginError(err error) error {
	var apiErr *authapi.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Rejected() {
			return &RejectedError{Message: apiErr.Message}
		}
		return fmt.Errorf("[auth Login] %w: %w", ErrAPIUnavailable, apiErr)
	}
	switch {
	case errors.Is(err, ErrInvalidResponse):
		return fmt.Errorf("[auth Login] %w", err)
	case errors.Is(err, ErrAPIUnavailable):
		return fmt.Errorf("[auth Login] %w", err)
	default:
		return fmt.Errorf("[auth Login] %w: %w", ErrAPIUnavailable, err)
	}
}

func loginOutcome(err error) string {
	var rejected *RejectedError
	switch {
	case errors.As(err, &rejected):
		return "rejected"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	default:
		return "unavailable"
	}
}

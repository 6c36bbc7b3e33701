// Package authapi is the HTTP client for the external Authentication and Referral API.
//
// Authenticated calls carry the caller's access token as a bearer token. Errors are
// classified against the shared sentinels: transport failures and 5xx responses wrap
// ErrUpstreamUnavailable, undecodable bodies wrap ErrUpstreamResponse, and other
// non-2xx responses are returned as *APIError.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/referral-portal/internal/errors"
	"github.com/jrsteele09/referral-portal/referrals"
	"github.com/jrsteele09/referral-portal/users"
	"golang.org/x/oauth2"
)

const (
	LoginPath                = "/login/"
	LogoutPath               = "/logout/"
	SaveReferralPath         = "/save-referral-data/"
	ReferralListPath         = "/referral-list/"
	ReferralStatusChangePath = "/referral-status-change/"

	DefaultTimeout = 10 * time.Second

	maxBodySize = 1 << 20
)

// Tokens is the token pair issued on login.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginRequest is the body of POST /login/.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body of a successful POST /login/.
type LoginResponse struct {
	User         users.User `json:"user"`
	Tokens       Tokens     `json:"tokens"`
	DashboardURL string     `json:"dashboard_url"`
	Message      string     `json:"message"`
}

// LogoutRequest is the body of POST /logout/.
type LogoutRequest struct {
	Refresh string `json:"refresh,omitempty"`
}

// ReferralListResponse is the body of GET /referral-list/.
type ReferralListResponse struct {
	Data    referrals.Lists `json:"data"`
	Message string          `json:"message"`
	Status  bool            `json:"status"`
}

// Client talks to the API at one base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying client. Its transport is reused for bearer calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New creates a Client for baseURL.
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Login exchanges credentials for a token pair and the user profile.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, "Login", http.MethodPost, LoginPath, "", LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout tells the API to invalidate refreshToken. accessToken authenticates the call.
func (c *Client) Logout(ctx context.Context, accessToken, refreshToken string) error {
	return c.do(ctx, "Logout", http.MethodPost, LogoutPath, accessToken, LogoutRequest{Refresh: refreshToken}, nil)
}

// SaveReferral submits a new referral on behalf of the token's employee.
func (c *Client) SaveReferral(ctx context.Context, accessToken string, sub referrals.Submission) (*referrals.Result, error) {
	var res referrals.Result
	if err := c.do(ctx, "SaveReferral", http.MethodPost, SaveReferralPath, accessToken, sub, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListReferrals returns the grouped referral lists shown to HR.
func (c *Client) ListReferrals(ctx context.Context, accessToken string) (referrals.Lists, error) {
	var resp ReferralListResponse
	if err := c.do(ctx, "ListReferrals", http.MethodGet, ReferralListPath, accessToken, nil, &resp); err != nil {
		return referrals.Lists{}, err
	}
	return resp.Data, nil
}

// UpdateReferralStatus moves a referral to a new status.
func (c *Client) UpdateReferralStatus(ctx context.Context, accessToken string, upd referrals.StatusUpdate) (*referrals.Result, error) {
	var res referrals.Result
	if err := c.do(ctx, "UpdateReferralStatus", http.MethodPost, ReferralStatusChangePath, accessToken, upd, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// clientFor returns a client that attaches accessToken as a bearer token.
func (c *Client) clientFor(ctx context.Context, accessToken string) *http.Client {
	if accessToken == "" {
		return c.httpClient
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
}

func (c *Client) do(ctx context.Context, op, method, path, accessToken string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("[authapi %s] encoding request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("[authapi %s] building request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.clientFor(ctx, accessToken).Do(req)
	if err != nil {
		return fmt.Errorf("[authapi %s] %w: %w", op, apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("[authapi %s] reading response: %w: %w", op, apperrors.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: ErrorMessage(resp.StatusCode, data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		if out != nil {
			return fmt.Errorf("[authapi %s] empty response body: %w", op, apperrors.ErrUpstreamResponse)
		}
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("[authapi %s] decoding response: %w: %w", op, apperrors.ErrUpstreamResponse, err)
	}
	return nil
}

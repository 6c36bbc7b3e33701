package auth

import (
	"context"

	"github.com/jrsteele09/referral-portal/authapi"
)

// API is the part of the Authentication API the flows depend on.
type API interface {
	Login(ctx context.Context, email, password string) (*authapi.LoginResponse, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
}

var _ API = (*authapi.Client)(nil)

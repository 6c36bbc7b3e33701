package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	accessTokenTTLVar      = "ACCESS_TOKEN_TTL"
	refreshTokenTTLVar     = "REFRESH_TOKEN_TTL"
	roleTTLVar             = "ROLE_TTL"
	apiTimeoutVar          = "API_TIMEOUT"
	logoutNotifyTimeoutVar = "LOGOUT_NOTIFY_TIMEOUT"
)

const (
	defaultAccessTokenTTL      = 7 * 24 * time.Hour
	defaultRefreshTokenTTL     = 30 * 24 * time.Hour // Refresh token has a longer expiry
	defaultRoleTTL             = 7 * 24 * time.Hour
	defaultAPITimeout          = 10 * time.Second
	defaultLogoutNotifyTimeout = 5 * time.Second
)

type SessionConfig interface {
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetRoleTTL() time.Duration
	GetAPITimeout() time.Duration
	GetLogoutNotifyTimeout() time.Duration
}

type Session struct {
	v *viper.Viper
}

var _ SessionConfig = Session{}

func (s Session) GetAccessTokenTTL() time.Duration {
	return durationOr(s.v, accessTokenTTLVar, defaultAccessTokenTTL)
}

func (s Session) GetRefreshTokenTTL() time.Duration {
	return durationOr(s.v, refreshTokenTTLVar, defaultRefreshTokenTTL)
}

func (s Session) GetRoleTTL() time.Duration {
	return durationOr(s.v, roleTTLVar, defaultRoleTTL)
}

func (s Session) GetAPITimeout() time.Duration {
	return durationOr(s.v, apiTimeoutVar, defaultAPITimeout)
}

func (s Session) GetLogoutNotifyTimeout() time.Duration {
	return durationOr(s.v, logoutNotifyTimeoutVar, defaultLogoutNotifyTimeout)
}

func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d := v.GetDuration(key)
	if d <= 0 {
		return fallback
	}
	return d
}

package config

import "github.com/spf13/viper"

const (
	secureCookiesVar      = "SECURE_COOKIES"
	rateLimitEnabledVar   = "RATE_LIMIT_ENABLED"
	loginRatePerMinuteVar = "LOGIN_RATE_PER_MINUTE"
	loginRateBurstVar     = "LOGIN_RATE_BURST"
)

type SecurityConfig interface {
	GetSecureCookies() bool
	GetEnableRateLimiting() bool
	GetLoginRatePerMinute() int
	GetLoginRateBurst() int
}

type Security struct {
	v *viper.Viper
}

var _ SecurityConfig = Security{}

// GetSecureCookies forces the Secure attribute on credential cookies even behind plain HTTP.
func (s Security) GetSecureCookies() bool {
	return s.v.GetBool(secureCookiesVar)
}

func (s Security) GetEnableRateLimiting() bool {
	return s.v.GetBool(rateLimitEnabledVar)
}

func (s Security) GetLoginRatePerMinute() int {
	if n := s.v.GetInt(loginRatePerMinuteVar); n > 0 {
		return n
	}
	return 10
}

func (s Security) GetLoginRateBurst() int {
	if n := s.v.GetInt(loginRateBurstVar); n > 0 {
		return n
	}
	return 5
}

package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config interface {
	EnvConfig
	CorsConfig
	SessionConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetAPIBaseURL() string
	GetCredentialStore() StoreKind
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisPrefix() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Session
	Security
}

// New reads configuration from the environment and, when present, referral-portal.yaml
// in the working directory or /etc/referral-portal.
func New() Config {
	return NewFromViper(newViper())
}

// NewFromViper builds a Config over an already populated viper instance.
func NewFromViper(v *viper.Viper) Config {
	setDefaults(v)
	return mainConfig{
		EnvVars:  EnvVars{v: v},
		Cors:     Cors{v: v},
		Session:  Session{v: v},
		Security: Security{v: v},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("referral-portal")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/referral-portal")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// Missing file is fine, env vars and defaults cover everything.
	_ = v.ReadInConfig()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(portEnvVar, "8080")
	v.SetDefault(appNameVar, "Referral Portal")
	v.SetDefault(envVar, "DEV")
	v.SetDefault(apiBaseURLVar, "http://localhost:8000")
	v.SetDefault(credentialStoreVar, string(StoreCookie))
	v.SetDefault(redisAddrVar, "localhost:6379")
	v.SetDefault(redisDBVar, 0)
	v.SetDefault(redisPrefixVar, "referral")

	v.SetDefault(accessTokenTTLVar, defaultAccessTokenTTL)
	v.SetDefault(refreshTokenTTLVar, defaultRefreshTokenTTL)
	v.SetDefault(roleTTLVar, defaultRoleTTL)
	v.SetDefault(apiTimeoutVar, defaultAPITimeout)
	v.SetDefault(logoutNotifyTimeoutVar, defaultLogoutNotifyTimeout)

	v.SetDefault(secureCookiesVar, false)
	v.SetDefault(rateLimitEnabledVar, true)
	v.SetDefault(loginRatePerMinuteVar, 10)
	v.SetDefault(loginRateBurstVar, 5)

	v.SetDefault(allowedOriginsVar, "")
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	portEnvVar         = "PORT"
	appNameVar         = "APP_NAME"
	envVar             = "ENV"
	apiBaseURLVar      = "API_BASE_URL"
	credentialStoreVar = "CREDENTIAL_STORE"
	redisAddrVar       = "REDIS_ADDR"
	redisPasswordVar   = "REDIS_PASSWORD"
	redisDBVar         = "REDIS_DB"
	redisPrefixVar     = "REDIS_PREFIX"
)

// StoreKind selects the Credential Store backend.
type StoreKind string

const (
	StoreCookie StoreKind = "cookie" // Browser cookies
	StoreMemory StoreKind = "memory" // Server-side map keyed by browser id
	StoreRedis  StoreKind = "redis"  // Server-side Redis keyed by browser id
)

type EnvVars struct {
	v *viper.Viper
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.v.GetString(portEnvVar)
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.v.GetString(appNameVar)
}

func (e EnvVars) GetEnv() string {
	env := e.v.GetString(envVar)
	if env == "" {
		return "DEV"
	}
	return strings.ToUpper(env)
}

// GetAPIBaseURL returns the base URL of the Authentication/Referral API
func (e EnvVars) GetAPIBaseURL() string {
	return strings.TrimRight(e.v.GetString(apiBaseURLVar), "/")
}

func (e EnvVars) GetCredentialStore() StoreKind {
	return StoreKind(strings.ToLower(e.v.GetString(credentialStoreVar)))
}

func (e EnvVars) GetRedisAddr() string {
	return e.v.GetString(redisAddrVar)
}

func (e EnvVars) GetRedisPassword() string {
	return e.v.GetString(redisPasswordVar)
}

func (e EnvVars) GetRedisDB() int {
	return e.v.GetInt(redisDBVar)
}

func (e EnvVars) GetRedisPrefix() string {
	return e.v.GetString(redisPrefixVar)
}

package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/referral-portal/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := config.NewFromViper(viper.New())

	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "Referral Portal", c.GetAppName())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, "http://localhost:8000", c.GetAPIBaseURL())
	require.Equal(t, config.StoreCookie, c.GetCredentialStore())

	require.Equal(t, 7*24*time.Hour, c.GetAccessTokenTTL())
	require.Equal(t, 30*24*time.Hour, c.GetRefreshTokenTTL())
	require.Equal(t, 7*24*time.Hour, c.GetRoleTTL())
	require.Equal(t, 5*time.Second, c.GetLogoutNotifyTimeout())

	require.True(t, c.GetEnableRateLimiting())
	require.Equal(t, 10, c.GetLoginRatePerMinute())
	require.Empty(t, c.GetAllowedOrigins())
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	v.Set("PORT", ":9000")
	v.Set("API_BASE_URL", "https://api.example.com/")
	v.Set("CREDENTIAL_STORE", "Redis")
	v.Set("ACCESS_TOKEN_TTL", "1h")
	v.Set("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	v.Set("ENV", "prod")
	c := config.NewFromViper(v)

	require.Equal(t, ":9000", c.GetPort())
	require.Equal(t, "https://api.example.com", c.GetAPIBaseURL())
	require.Equal(t, config.StoreRedis, c.GetCredentialStore())
	require.Equal(t, time.Hour, c.GetAccessTokenTTL())
	require.Equal(t, "PROD", c.GetEnv())

	origins := c.GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("https://a.example.com"))
	require.True(t, origins.IsAllowedOrigin("https://b.example.com"))
	require.False(t, origins.IsAllowedOrigin("https://c.example.com"))
	require.Equal(t, "https://a.example.com,https://b.example.com", origins.String())
}

func TestAllowOrigin(t *testing.T) {
	listed := config.AllowedOrigins{"https://app.example.com": {}}
	allow, credentials := listed.AllowOrigin("https://app.example.com")
	require.Equal(t, "https://app.example.com", allow)
	require.True(t, credentials)

	allow, credentials = listed.AllowOrigin("https://other.example.com")
	require.Empty(t, allow)
	require.False(t, credentials)

	wildcard := config.AllowedOrigins{"*": {}}
	allow, credentials = wildcard.AllowOrigin("https://other.example.com")
	require.Equal(t, "*", allow)
	require.False(t, credentials)
}

package config

import (
	"sort"
	"strings"

	"github.com/spf13/viper"
)

const allowedOriginsVar = "ALLOWED_ORIGINS"

type Cors struct {
	v *viper.Viper
}

var _ CorsConfig = Cors{}

// AllowedOrigins is the set of origins named in ALLOWED_ORIGINS. "*" admits any origin.
type AllowedOrigins map[string]struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

// AllowOrigin returns the Access-Control-Allow-Origin value for origin and whether
// credentials may accompany it. Only an explicitly listed origin gets credentials;
// the wildcard never does. An empty value means the origin is refused.
func (a AllowedOrigins) AllowOrigin(origin string) (string, bool) {
	switch {
	case a.IsAllowedOrigin(origin):
		return origin, true
	case a.IsAllowedOrigin("*"):
		return "*", false
	default:
		return "", false
	}
}

func (a AllowedOrigins) String() string {
	origins := make([]string, 0, len(a))
	for o := range a {
		origins = append(origins, o)
	}
	sort.Strings(origins)
	return strings.Join(origins, ",")
}

// GetAllowedOrigins parses the comma separated ALLOWED_ORIGINS value.
func (c Cors) GetAllowedOrigins() AllowedOrigins {
	origins := AllowedOrigins{}
	for _, o := range strings.Split(c.v.GetString(allowedOriginsVar), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins[o] = struct{}{}
		}
	}
	return origins
}

func (Cors) GetAllowedMethods() string {
	return "GET, POST, OPTIONS"
}

func (Cors) GetAllowedHeaders() string {
	return "Content-Type, Authorization"
}

package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	visitorCleanupInterval = time.Minute
	visitorIdleExpiry      = 3 * time.Minute

	tooManyLoginsMessage = "Too many login attempts. Please wait a minute and try again."
)

// LoginRateLimiter keeps one token bucket per client IP for login submissions.
type LoginRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	nowTime  func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginRateLimiter allows perMinute attempts per IP with the given burst, and
// starts a goroutine that forgets idle IPs. Close stops it.
func NewLoginRateLimiter(perMinute, burst int) *LoginRateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	rl := &LoginRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		nowTime:  time.Now,
		done:     make(chan struct{}),
	}
	go rl.cleanupVisitors()
	return rl
}

// Allow consumes one attempt for ip.
func (rl *LoginRateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.nowTime()
	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (rl *LoginRateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.done) })
}

func (rl *LoginRateLimiter) cleanupVisitors() {
	ticker := time.NewTicker(visitorCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.purge()
		}
	}
}

func (rl *LoginRateLimiter) purge() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.nowTime()
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorIdleExpiry {
			delete(rl.visitors, ip)
		}
	}
}

// LoginRateLimitMiddleware sends a client that exceeds its budget back to the login
// page with an error instead of calling the Authentication API.
func (s *Server) LoginRateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next(w, r)
			return
		}
		ip := clientIP(r)
		if !s.limiter.Allow(ip) {
			s.metrics.RateLimited.Inc()
			log.Warn().Str("ip", ip).Msg("[Server LoginRateLimitMiddleware] login rate limit exceeded")
			redirectWithError(w, r, RouteLogin, tooManyLoginsMessage, "")
			return
		}
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = strings.TrimSuffix(strings.TrimPrefix(r.RemoteAddr, "["), "]")
	}
	return ip
}

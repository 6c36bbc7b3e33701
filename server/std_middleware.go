package server

import (
	"net/http"
	"net/url"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// middleware wraps a handler with one cross-cutting concern.
type middleware = func(http.HandlerFunc) http.HandlerFunc

// ChainMiddleware wraps h so that mw[0] runs first.
func ChainMiddleware(h http.HandlerFunc, mw ...middleware) http.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// HTMLMiddleWare is the stack for browser pages, followed by any route specific extras.
func (s *Server) HTMLMiddleWare(extra ...middleware) []middleware {
	return append([]middleware{
		s.WWWRedirectMiddleware,
		s.LoggingMiddleware,
		s.RecoverMiddleware,
		s.FrameSecurityMiddleware,
		s.BrowserIDMiddleware,
	}, extra...)
}

// APIMiddleware is the stack for the JSON endpoints.
func (s *Server) APIMiddleware(extra ...middleware) []middleware {
	return append([]middleware{
		s.LoggingMiddleware,
		s.RecoverMiddleware,
		s.CorsMiddleware,
		s.BrowserIDMiddleware,
	}, extra...)
}

// WWWRedirectMiddleware sends www.<host> to the bare host permanently.
func (s *Server) WWWRedirectMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bare, found := strings.CutPrefix(r.Host, "www.")
		if !found {
			next(w, r)
			return
		}
		target := url.URL{Scheme: "https", Host: bare, Path: r.URL.Path, RawQuery: r.URL.RawQuery}
		http.Redirect(w, r, target.String(), http.StatusMovedPermanently)
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	return rec.ResponseWriter.Write(b)
}

func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// LoggingMiddleware records request metrics and, in DEV, logs each request.
func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		elapsed := time.Since(start)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.observeRequest(r.Method, route, rec.status, elapsed)

		if s.env != "DEV" {
			return
		}
		log.Info().
			Str("status", statusColour(rec.status)+strconv.Itoa(rec.status)+ResetColor).
			Dur("elapsed", elapsed).
			Msgf("[%s] %s", colouredMethod(r.Method), r.URL.Path)
	}
}

// FrameSecurityMiddleware forbids framing by other origins.
func (s *Server) FrameSecurityMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("Content-Security-Policy", "frame-ancestors 'self'")
		next(w, r)
	}
}

// RecoverMiddleware turns a handler panic into a logged 500.
func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rv := recover()
			if rv == nil {
				return
			}
			if rv == http.ErrAbortHandler {
				panic(rv)
			}
			log.Error().
				Str("path", r.URL.Path).
				Str("stack", string(debug.Stack())).
				Msgf("[Server RecoverMiddleware] panic: %v", rv)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}()
		next(w, r)
	}
}

// NoStoreMiddleware stops browsers and proxies caching pages that depend on the session.
func (s *Server) NoStoreMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next(w, r)
	}
}

package server

import (
	"net/http"
	"strconv"
)

const corsMaxAge = 24 * 60 * 60

// CorsMiddleware adds CORS headers for cross-origin callers of the JSON endpoints.
// A refused origin gets no headers at all and the browser blocks the response.
func (s *Server) CorsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next(w, r)
			return
		}

		h := w.Header()
		h.Add("Vary", "Origin")
		allow, credentials := s.config.GetAllowedOrigins().AllowOrigin(origin)
		if allow != "" {
			h.Set("Access-Control-Allow-Origin", allow)
			if credentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", s.config.GetAllowedMethods())
				h.Set("Access-Control-Allow-Headers", s.config.GetAllowedHeaders())
				h.Set("Access-Control-Max-Age", strconv.Itoa(corsMaxAge))
			}
		}
		next(w, r)
	}
}

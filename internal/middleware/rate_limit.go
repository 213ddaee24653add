package middleware

import (
	"net/http"
)

// Allower es lo que el middleware necesita de un rate limiter.
type Allower interface {
	Allow(key string) bool
}

// RateLimit corta con 429 cuando la key agotó su cupo.
// La key es el user autenticado; sin claims cae al RemoteAddr para que
// tráfico anónimo no comparta un único bucket global.
func RateLimit(limiter Allower) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if claims, ok := GetClaims(r.Context()); ok && claims.UserID != "" {
				key = claims.UserID
			}

			if !limiter.Allow(key) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded, slow down"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

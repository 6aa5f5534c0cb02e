package api

import (
	"log/slog"
	"net"
	"net/http"

	domainerrors "github.com/takuyahirata23/quick-note/internal/errors"
	"github.com/takuyahirata23/quick-note/internal/http/response"
	"github.com/takuyahirata23/quick-note/internal/metrics"
	"github.com/takuyahirata23/quick-note/internal/ratelimit"
)

// RateLimitMiddleware limits POST requests to the given paths per client IP.
// Returns 429 Too Many Requests when the limit is exceeded.
func RateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger, paths ...string) func(http.Handler) http.Handler {
	limited := make(map[string]bool, len(paths))
	for _, p := range paths {
		limited[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || !limited[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			key := getClientIP(r)
			if !limiter.Allow(key) {
				metrics.ObserveRateLimited(r.URL.Path)
				logger.Warn("Rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				response.HandleError(w, domainerrors.ErrRateLimited, logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP keys on the connection address. Forwarding headers only count
// when middleware.RealIP has already folded them into RemoteAddr.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/arenaops/arenad/internal/httputil"
)

// RateLimit creates an IP-based rate limiter with logging. Used with a
// tight limit on the login endpoints and a loose one globally.
func RateLimit(requests int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return httprate.Limit(
		requests,
		window,
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("rate limit exceeded",
				"ip", r.RemoteAddr,
				"path", r.URL.Path,
				"method", r.Method,
			)
			httputil.Error(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later", httputil.CodeRateLimited)
		}),
	)
}

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/arenaops/arenad/internal/httputil"
)

// Recover converts panics in downstream handlers into 500 responses
// instead of killing the connection.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						"error", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()))
					httputil.Error(w, http.StatusInternalServerError, "internal server error", httputil.CodeInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

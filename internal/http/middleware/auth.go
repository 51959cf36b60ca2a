package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/arenaops/arenad/internal/httputil"
	"github.com/arenaops/arenad/pkg/auth"
	"github.com/arenaops/arenad/pkg/domain"
)

type contextKey string

// IdentityKey is the context key for the resolved caller identity.
const IdentityKey contextKey = "identity"

// RequireAuth resolves the bearer token into an identity and stores it in
// the request context. The whole guard runs before any handler: token
// signature, session revocation, account lock.
func RequireAuth(sessions *auth.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				httputil.DomainError(w, domain.ErrTokenMissing)
				return
			}

			identity, err := sessions.Resolve(r.Context(), tokenString)
			if err != nil {
				httputil.DomainError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves the bearer token when one is presented and
// attaches the identity; requests without a usable token proceed
// anonymously. Used on public reads so handlers can still see who is
// asking.
func OptionalAuth(sessions *auth.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenString := bearerToken(r); tokenString != "" {
				if identity, err := sessions.Resolve(r.Context(), tokenString); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), IdentityKey, identity))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole allows only the listed roles past. Must sit inside
// RequireAuth.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r.Context())
			if !ok {
				httputil.Error(w, http.StatusUnauthorized, "authentication required", httputil.CodeAuthRequired)
				return
			}
			if err := auth.Authorize(identity, roles...); err != nil {
				httputil.DomainError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireVerified allows only callers with a verified email past. Must
// sit inside RequireAuth; used on the administrative route groups.
func RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r.Context())
		if !ok {
			httputil.Error(w, http.StatusUnauthorized, "authentication required", httputil.CodeAuthRequired)
			return
		}
		if !identity.EmailVerified {
			httputil.DomainError(w, domain.ErrEmailNotVerified)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetIdentity extracts the caller identity from the request context.
func GetIdentity(ctx context.Context) (*domain.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*domain.Identity)
	return identity, ok
}

// MustIdentity returns the identity or panics. Only for handlers mounted
// inside RequireAuth, where absence is a programming error.
func MustIdentity(ctx context.Context) *domain.Identity {
	identity, ok := GetIdentity(ctx)
	if !ok {
		panic("identity missing from context; handler mounted outside RequireAuth")
	}
	return identity
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

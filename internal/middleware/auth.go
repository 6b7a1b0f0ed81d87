package middleware

import (
	"net/http"

	"github.com/planora/planora-server/internal/auth"
	"github.com/planora/planora-server/internal/httpx"
)

// RequireAuth resolves the caller's credential (bearer header or session
// cookie) and injects the identity into the request context. Handlers
// downstream read it with auth.IdentityFromContext and pass it explicitly
// into service calls.
func RequireAuth(resolver *auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id, ok := resolver.Resolve(req.Context(), req)
			if !ok {
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, req.WithContext(auth.WithIdentity(req.Context(), id)))
		})
	}
}

// internal/auth/resolver.go
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/planora/planora-server/internal/models"
)

// Resolver extracts a caller identity from an inbound request. It is
// read-only: no token refresh, no cookie writing. Resolution order is the
// Authorization header first, then the session cookie; both can be present
// while a client transitions between the two and the header wins.
type Resolver struct {
	verifier   TokenVerifier
	cookieName string
}

func NewResolver(verifier TokenVerifier, projectRef string) *Resolver {
	return &Resolver{
		verifier:   verifier,
		cookieName: "sb-" + projectRef + "-auth-token",
	}
}

// Resolve returns the authenticated identity for req, or ok=false when no
// credential is present or the token exchange fails. Invalid and absent
// credentials are deliberately indistinguishable.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) (models.Identity, bool) {
	token := r.bearerToken(req)
	if token == "" {
		token = r.cookieToken(req)
	}
	if token == "" {
		return models.Identity{}, false
	}
	id, err := r.verifier.Verify(ctx, token)
	if err != nil {
		return models.Identity{}, false
	}
	return id, true
}

func (r *Resolver) bearerToken(req *http.Request) string {
	h := req.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// cookieToken locates the session cookie by key prefix within the raw
// Cookie header. The hosted provider chunks long sessions into
// <name>.0, <name>.1, ... so an exact-name lookup misses them; a prefix
// scan taking the value up to the next ';' matches both forms.
func (r *Resolver) cookieToken(req *http.Request) string {
	raw := req.Header.Get("Cookie")
	if raw == "" {
		return ""
	}
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		name, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		if strings.HasPrefix(name, r.cookieName) {
			return strings.Trim(value, `"`)
		}
	}
	return ""
}

// internal/auth/context.go
package auth

import (
	"context"

	"github.com/planora/planora-server/internal/models"
)

type ctxKeyIdentity struct{}

func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity{}, id)
}

func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity{}).(models.Identity)
	return id, ok
}

// internal/auth/verifier.go
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/planora/planora-server/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenVerifier exchanges an access token for a caller identity. The
// production implementation validates tokens minted by the hosted auth
// provider; tests substitute a fake.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (models.Identity, error)
}

// JWTVerifier validates HS256 access tokens. The subject claim carries the
// user id and the email claim the verified email, matching the hosted
// provider's token shape.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (models.Identity, error) {
	var claims accessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return models.Identity{}, ErrInvalidToken
	}
	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return models.Identity{}, ErrInvalidToken
	}
	if claims.Email == "" {
		return models.Identity{}, ErrInvalidToken
	}
	return models.Identity{ID: uid, Email: claims.Email}, nil
}

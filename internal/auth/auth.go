package auth

import (
	"context"

	"github.com/frahmantamala/recruitment-management/internal/user"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token claims issued by the hosted identity provider. Subject carries the user id.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(tokenString string) (*Claims, error)
}

// ActorLoader resolves the account behind a verified token.
type ActorLoader interface {
	FindActive(ctx context.Context, id string) (*user.User, error)
}

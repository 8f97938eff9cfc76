package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/golang-jwt/jwt/v5"
)

type JWTVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

func NewJWTVerifier(cfg internal.SecurityConfig) *JWTVerifier {
	return &JWTVerifier{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
	}
}

// Verify validates an HS256 token and returns its claims.
func (v *JWTVerifier) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

// Issue signs a token for userID. Used by local tooling and tests; production tokens come from the identity provider.
func (v *JWTVerifier) Issue(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if v.audience != "" {
		claims.Audience = jwt.ClaimStrings{v.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

// Service turns bearer tokens into actors.
type Service struct {
	verifier TokenVerifier
	users    ActorLoader
	logger   *slog.Logger
}

func NewService(verifier TokenVerifier, users ActorLoader, logger *slog.Logger) *Service {
	return &Service{
		verifier: verifier,
		users:    users,
		logger:   logger,
	}
}

// Authenticate verifies the token and loads the active account it names.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (internal.Actor, error) {
	claims, err := s.verifier.Verify(tokenString)
	if err != nil {
		s.logger.Warn("token rejected", "error", err)
		return internal.Actor{}, err
	}

	u, err := s.users.FindActive(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			s.logger.Warn("token subject has no account", "user_id", claims.Subject)
			return internal.Actor{}, internal.ErrInvalidToken
		}
		return internal.Actor{}, err
	}

	return internal.Actor{ID: u.ID, Role: u.Role}, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"newsfeed/internal/domain"
	"newsfeed/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWKSVerifier validates tokens from an external identity provider using
// the provider's published JWKS.
type JWKSVerifier struct {
	jwks     keyfunc.Keyfunc
	audience string
	logger   *slog.Logger
}

// NewJWKSVerifier creates a verifier that fetches public keys from jwksURL.
// Keys are cached and refreshed by keyfunc based on HTTP cache headers.
func NewJWKSVerifier(ctx context.Context, jwksURL, audience string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWKS verifier initialized", "jwks_url", jwksURL)

	return &JWKSVerifier{jwks: jwks, audience: audience, logger: logger}, nil
}

// VerifyToken validates a token signed with RS256 or ES256.
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.TokenClaims, error) {
	opts := []jwt.ParserOption{
		// Prevent algorithm confusion attacks
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, v.jwks.Keyfunc, opts...)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid {
		v.logger.Error("failed to extract claims from token")
		return nil, domain.ErrUnauthorized
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		v.logger.Debug("token subject is not a user id", "subject", claims.Subject)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close releases resources held by the verifier. keyfunc v3 manages its
// own refresh goroutine, so this is a no-op kept for shutdown symmetry.
func (v *JWKSVerifier) Close() error {
	v.logger.Info("JWKS verifier closed")
	return nil
}

package auth

import (
	"context"
	"log/slog"

	"newsfeed/internal/domain/models"
)

// JWTVerifier validates bearer tokens. Any failure is reported as
// domain.ErrUnauthorized.
type JWTVerifier interface {
	VerifyToken(tokenString string) (*models.TokenClaims, error)
	Close() error
}

// NewVerifier picks the verifier for the deployment: tokens from an
// external identity provider when jwksURL is set, otherwise tokens this
// service signed with settings.Key.
func NewVerifier(ctx context.Context, settings TokenSettings, jwksURL string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL != "" {
		logger.Info("verifying tokens against JWKS", "url", jwksURL)
		return NewJWKSVerifier(ctx, jwksURL, settings.Audience, logger)
	}
	return NewHMACVerifier(settings, logger)
}

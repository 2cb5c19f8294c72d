package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"newsfeed/internal/domain"
	"newsfeed/internal/domain/models"
)

// TokenSettings configures HS256 issuance and verification.
type TokenSettings struct {
	Key       []byte
	Issuer    string
	Audience  string
	ExpiresIn time.Duration
}

// HMACIssuer signs HS256 access tokens for local accounts.
type HMACIssuer struct {
	settings TokenSettings
	now      func() time.Time
}

// NewHMACIssuer creates an issuer. The key must be at least 32 bytes.
func NewHMACIssuer(settings TokenSettings) (*HMACIssuer, error) {
	if len(settings.Key) < 32 {
		return nil, errors.New("signing key must be at least 32 bytes")
	}
	if settings.ExpiresIn <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}
	return &HMACIssuer{settings: settings, now: time.Now}, nil
}

// Issue returns a signed token whose subject is the user id.
func (i *HMACIssuer) Issue(user *models.User) (string, time.Time, error) {
	now := i.now().UTC()
	expiresAt := now.Add(i.settings.ExpiresIn)

	claims := models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    i.settings.Issuer,
			Audience:  jwt.ClaimStrings{i.settings.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
		Email: user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.settings.Key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// HMACVerifier validates tokens signed by HMACIssuer.
type HMACVerifier struct {
	settings TokenSettings
	parser   *jwt.Parser
	logger   *slog.Logger
}

// NewHMACVerifier creates a verifier that only accepts HS256.
func NewHMACVerifier(settings TokenSettings, logger *slog.Logger) (JWTVerifier, error) {
	if len(settings.Key) < 32 {
		return nil, errors.New("signing key must be at least 32 bytes")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if settings.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(settings.Issuer))
	}
	if settings.Audience != "" {
		opts = append(opts, jwt.WithAudience(settings.Audience))
	}

	return &HMACVerifier{
		settings: settings,
		parser:   jwt.NewParser(opts...),
		logger:   logger,
	}, nil
}

// VerifyToken checks signature, algorithm, issuer, audience and expiry,
// and that the subject is a user id.
func (v *HMACVerifier) VerifyToken(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}
	_, err := v.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return v.settings.Key, nil
	})
	if err != nil {
		v.logger.Debug("token rejected", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		v.logger.Debug("token subject is not a user id", "subject", claims.Subject)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close is a no-op; the key lives in memory.
func (v *HMACVerifier) Close() error {
	return nil
}

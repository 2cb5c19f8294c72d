package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"newsfeed/internal/domain/models"
)

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService handles account creation and credential checks.
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*models.AuthResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *models.User) (token string, expiresAt time.Time, err error)
}

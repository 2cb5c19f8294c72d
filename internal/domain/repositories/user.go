package repositories

import (
	"context"

	"github.com/google/uuid"
	"newsfeed/internal/domain/models"
)

// UserRepository defines data access for accounts
type UserRepository interface {
	// Create inserts a user and fills in its ID. A duplicate email
	// returns a *domain.ConflictError.
	Create(ctx context.Context, user *models.User) error

	// GetByEmail looks up a normalized email. Missing users return
	// domain.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns domain.ErrNotFound when the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"newsfeed/internal/domain"
	"newsfeed/internal/domain/models"
	"newsfeed/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserRepository creates a new PostgresUserRepository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a user and fills in its ID and registration date
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (email, password_hash, registration_date)
		VALUES ($1, $2, $3)
		RETURNING id, registration_date
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.RegistrationDate,
	).Scan(&user.ID, &user.RegistrationDate)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "email is already registered",
				ResourceType: "user",
				ResourceID:   user.Email,
				ErrCode:      "auth/email-taken",
			}
		}
		return storageErr("create user", err)
	}

	return nil
}

// GetByEmail looks up a user by normalized email
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, password_hash, registration_date
		FROM %s
		WHERE email = $1
	`, r.tables.Users)

	return r.getOne(ctx, query, email)
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, password_hash, registration_date
		FROM %s
		WHERE id = $1
	`, r.tables.Users)

	return r.getOne(ctx, query, id)
}

func (r *PostgresUserRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.RegistrationDate,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: "user not found", ErrCode: "user/not-found"}
		}
		return nil, storageErr("get user", err)
	}
	return &user, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"newsfeed/internal/config"
	"newsfeed/internal/domain"
	"newsfeed/internal/domain/models"
	"newsfeed/internal/domain/repositories"
	"newsfeed/internal/domain/services"
)

// authService implements services.AuthService
type authService struct {
	users  repositories.UserRepository
	issuer services.TokenIssuer
	cost   int
	logger *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	users repositories.UserRepository,
	issuer services.TokenIssuer,
	logger *slog.Logger,
) services.AuthService {
	return &authService{
		users:  users,
		issuer: issuer,
		cost:   bcrypt.DefaultCost,
		logger: logger,
	}
}

func errCredentialsRequired() error {
	return domain.NewValidationError("auth/required", "email and password are required")
}

func errInvalidCredentials() error {
	return &domain.UnauthorizedError{Message: "invalid credentials", ErrCode: "auth/invalid-credentials"}
}

// normalizeEmail trims and lowercases an address
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// emailShape accepts a bare address such as "a@example.com".
func emailShape(value any) error {
	s, _ := value.(string)
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || !strings.Contains(s[strings.LastIndex(s, "@")+1:], ".") {
		return errors.New("must be a valid email address")
	}
	return nil
}

// Register creates an account and returns a signed token for it
func (s *authService) Register(ctx context.Context, req *services.RegisterRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || strings.TrimSpace(req.Password) == "" {
		return nil, errCredentialsRequired()
	}

	if err := validation.Validate(email,
		validation.Length(3, config.MaxEmailLength),
		validation.By(emailShape),
	); err != nil {
		return nil, domain.NewValidationError("auth/invalid-email", fmt.Sprintf("email: %s", err.Error()))
	}
	if err := validation.Validate(req.Password, validation.Length(1, config.MaxPasswordLength)); err != nil {
		return nil, domain.NewValidationError("auth/invalid-password", fmt.Sprintf("password: %s", err.Error()))
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, &domain.ConflictError{
			Message:      "email is already registered",
			ResourceType: "user",
			ResourceID:   email,
			ErrCode:      "auth/email-taken",
		}
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:            email,
		PasswordHash:     string(hash),
		RegistrationDate: time.Now().UTC(),
	}
	// A concurrent registration surfaces as a ConflictError from the unique index
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return s.respond(user)
}

// Login checks credentials and returns a signed token
func (s *authService) Login(ctx context.Context, req *services.LoginRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || strings.TrimSpace(req.Password) == "" {
		return nil, errCredentialsRequired()
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("login rejected", "reason", "unknown email")
			return nil, errInvalidCredentials()
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("login rejected", "reason", "password mismatch", "user_id", user.ID)
		return nil, errInvalidCredentials()
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return s.respond(user)
}

// Me returns the caller's profile
func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

func (s *authService) respond(user *models.User) (*models.AuthResponse, error) {
	token, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &models.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.Profile(),
	}, nil
}

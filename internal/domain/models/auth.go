package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is the JWT payload issued at login/registration.
// Subject carries the user id.
type TokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *TokenClaims) GetUserID() string {
	return c.Subject
}

// User is an account row. PasswordHash never leaves the service layer.
type User struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	RegistrationDate time.Time `json:"registrationDate"`
}

// UserProfile is the public view of a user.
type UserProfile struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	RegistrationDate time.Time `json:"registrationDate"`
}

// Profile strips credentials from a user.
func (u *User) Profile() UserProfile {
	return UserProfile{ID: u.ID, Email: u.Email, RegistrationDate: u.RegistrationDate}
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      UserProfile `json:"user"`
}

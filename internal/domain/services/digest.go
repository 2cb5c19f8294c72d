package services

import (
	"context"

	"github.com/google/uuid"
	"newsfeed/internal/domain/models"
)

// Mailer delivers one HTML email.
type Mailer interface {
	SendHTML(ctx context.Context, to, subject, html string) error
}

// DigestService emails a user their personalised headlines.
type DigestService interface {
	// Send clamps max to the allowed range and returns who was emailed
	// and how many items were included.
	Send(ctx context.Context, userID uuid.UUID, max int, language string) (*models.DigestResult, error)
}

package repositories

import (
	"context"

	"github.com/google/uuid"
)

// KeywordRepository stores the (user, keyword) preference rows.
// Keywords are passed already normalized.
type KeywordRepository interface {
	// ListKeywords returns the user's keywords sorted ascending.
	ListKeywords(ctx context.Context, userID uuid.UUID) ([]string, error)

	// CountKeywords returns how many keywords the user has stored.
	CountKeywords(ctx context.Context, userID uuid.UUID) (int, error)

	// InsertKeyword stores a keyword. It returns false, nil when the
	// pair already exists.
	InsertKeyword(ctx context.Context, userID uuid.UUID, keyword string) (bool, error)

	// DeleteKeyword removes a keyword. It returns false, nil when no
	// row matched.
	DeleteKeyword(ctx context.Context, userID uuid.UUID, keyword string) (bool, error)

	// LockUserKeywords serializes keyword writes for one user until the
	// surrounding transaction ends. Must be called inside ExecTx.
	LockUserKeywords(ctx context.Context, userID uuid.UUID) error
}

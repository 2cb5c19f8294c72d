package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"newsfeed/internal/domain"
)

// SQLSTATE codes this package reacts to.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// pgCode returns the SQLSTATE of a server error, or "".
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsPgDuplicateError reports a unique constraint violation (a second
// account for the same email).
func IsPgDuplicateError(err error) bool {
	return pgCode(err) == uniqueViolation
}

// IsPgForeignKeyError reports a foreign key violation (a row pointing at
// a user or article that does not exist).
func IsPgForeignKeyError(err error) bool {
	return pgCode(err) == foreignKeyViolation
}

// IsPgNoRowsError reports an empty QueryRow result.
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// storageErr reports any other driver failure as StorageUnavailable.
// Context errors keep their identity so callers can tell a cancelled
// request from a broken database.
func storageErr(op string, err error) error {
	return domain.NewStorageError(op, err)
}

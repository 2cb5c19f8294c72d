package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"newsfeed/internal/domain"
)

func TestClassifyPgErrors(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolation})
	fk := &pgconn.PgError{Code: foreignKeyViolation}

	if !IsPgDuplicateError(dup) || IsPgDuplicateError(fk) {
		t.Error("unique violation misclassified")
	}
	if !IsPgForeignKeyError(fk) || IsPgForeignKeyError(dup) {
		t.Error("foreign key violation misclassified")
	}
	if !IsPgNoRowsError(fmt.Errorf("get: %w", pgx.ErrNoRows)) {
		t.Error("no rows not detected")
	}
	if IsPgDuplicateError(errors.New("plain")) {
		t.Error("plain error classified as pg error")
	}
}

func TestStorageErrKeepsCause(t *testing.T) {
	err := storageErr("list keywords", context.DeadlineExceeded)

	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Error("not classified as storage unavailable")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("cause lost")
	}
	if storageErr("noop", nil) != nil {
		t.Error("nil error wrapped")
	}
}

package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"newsfeed/internal/domain"
	"newsfeed/internal/domain/repositories"
)

// TransactionManager runs repository calls in one read-committed
// transaction. Per-user serialization comes from the advisory lock the
// keyword repository takes, not from the isolation level.
type TransactionManager struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(pool *pgxpool.Pool, logger *slog.Logger) repositories.TransactionManager {
	return &TransactionManager{pool: pool, logger: logger}
}

// ExecTx runs fn in a transaction and commits when it returns nil. A ctx
// that already carries a transaction is reused, so nested calls join the
// outer one. Errors from fn are returned unchanged; begin and commit
// failures are StorageErrors.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if repositories.InTx(ctx) {
		return fn(ctx)
	}

	start := time.Now()
	var fnErr error
	err := pgx.BeginTxFunc(ctx, tm.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		fnErr = fn(repositories.SetTx(ctx, tx))
		return fnErr
	})

	switch {
	case fnErr != nil:
		tm.logger.Debug("transaction rolled back",
			"error", fnErr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fnErr
	case err != nil:
		return domain.NewStorageError("transaction", err)
	}
	return nil
}

package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// SchemaStatements returns the DDL for prefix, one statement per element.
func SchemaStatements(prefix string) []string {
	rendered := strings.ReplaceAll(schemaSQL, "{{prefix}}", prefix)

	var stmts []string
	for _, stmt := range strings.Split(rendered, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// Migrate creates missing tables and indexes. Every statement is
// idempotent, so it runs on each startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool, prefix string, logger *slog.Logger) error {
	stmts := SchemaStatements(prefix)
	for i, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	logger.Info("schema ready", "prefix", prefix, "statements", len(stmts))
	return nil
}

// DropAll drops every prefixed table in dependency order.
func DropAll(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, logger *slog.Logger) error {
	for _, table := range tables.All() {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
		logger.Info("dropped table", "table", table)
	}
	return nil
}

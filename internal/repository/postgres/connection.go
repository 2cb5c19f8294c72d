package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"newsfeed/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Users              string
	UserPreferences    string
	UserSettings       string
	ExternalArticles   string
	UserArticleActions string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:              fmt.Sprintf("%susers", prefix),
		UserPreferences:    fmt.Sprintf("%suser_preferences", prefix),
		UserSettings:       fmt.Sprintf("%suser_settings", prefix),
		ExternalArticles:   fmt.Sprintf("%sexternal_articles", prefix),
		UserArticleActions: fmt.Sprintf("%suser_article_actions", prefix),
	}
}

// All returns every table, children before parents (drop order).
func (t *TableNames) All() []string {
	return []string{
		t.UserArticleActions,
		t.ExternalArticles,
		t.UserSettings,
		t.UserPreferences,
		t.Users,
	}
}

// PoolOptions tunes the connection pool.
type PoolOptions struct {
	MaxConns int32
	MinConns int32
	// SlowQueryThreshold enables slow query logging when positive.
	SlowQueryThreshold time.Duration
	Logger             *slog.Logger
}

// CreateConnectionPool creates a pgx pool and verifies connectivity.
//
// Port 6543 (Supabase/PgBouncer transaction pooler) does not support
// prepared statements, so cache_describe mode is used there unless the
// connection string sets default_query_exec_mode itself. Table prefixes are
// interpolated before statements reach the server, so each environment
// prepares its own statements.
func CreateConnectionPool(ctx context.Context, databaseURL string, opts PoolOptions) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 2
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		config.MinConns = opts.MinConns
	}

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	if opts.SlowQueryThreshold > 0 && opts.Logger != nil {
		config.ConnConfig.Tracer = NewSlowQueryTracer(opts.SlowQueryThreshold, opts.Logger)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction in ctx, or pool when there is none,
// so repositories join a surrounding transaction automatically.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}

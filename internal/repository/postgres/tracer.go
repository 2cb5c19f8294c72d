package postgres

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

type queryStartKey struct{}

type queryStart struct {
	sql   string
	start time.Time
}

// SlowQueryTracer logs statements that take longer than a threshold.
type SlowQueryTracer struct {
	threshold time.Duration
	logger    *slog.Logger
}

// NewSlowQueryTracer creates a pgx.QueryTracer
func NewSlowQueryTracer(threshold time.Duration, logger *slog.Logger) *SlowQueryTracer {
	return &SlowQueryTracer{threshold: threshold, logger: logger}
}

// TraceQueryStart records the start time.
func (t *SlowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, start: time.Now()})
}

// TraceQueryEnd logs the statement when it exceeded the threshold.
func (t *SlowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	qs, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	elapsed := time.Since(qs.start)
	if elapsed < t.threshold {
		return
	}

	attrs := []any{
		"duration_ms", elapsed.Milliseconds(),
		"sql", compactSQL(qs.sql),
		"rows", data.CommandTag.RowsAffected(),
	}
	if data.Err != nil {
		attrs = append(attrs, "error", data.Err)
	}
	t.logger.Warn("slow query", attrs...)
}

// compactSQL collapses whitespace so statements log on one line.
func compactSQL(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}

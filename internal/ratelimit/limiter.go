package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisConfig configures a Redis connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies it with a ping.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// RedisLimiter is a fixed-window counter shared by every server instance.
// Each window is one key that expires with the window.
type RedisLimiter struct {
	client *redis.Client
	name   string
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedisLimiter allows limit calls per key per window. name namespaces
// the counters so several limiters can share one Redis.
func NewRedisLimiter(client *redis.Client, name string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		name:   name,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow increments the current window's counter.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}

	bucket := l.now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("ratelimit:%s:%s:%d", l.name, key, bucket)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}
	return incr.Val() <= int64(l.limit), nil
}

// MemoryLimiter keeps one token bucket per key in process.
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

// NewMemoryLimiter allows limit calls per key per window, refilled evenly.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	every := rate.Inf
	if limit > 0 {
		every = rate.Every(window / time.Duration(limit))
	}
	return &MemoryLimiter{
		limiters: make(map[string]*rate.Limiter),
		every:    every,
		burst:    limit,
	}
}

// Allow takes one token from key's bucket.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.every, l.burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow(), nil
}

package resilience

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"newsfeed/internal/domain"
)

// BreakerSettings tunes a circuit breaker. Zero values take defaults.
type BreakerSettings struct {
	// ConsecutiveFailures opens the breaker (default 5).
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open (default 30s).
	OpenTimeout time.Duration
	// HalfOpenRequests is the number of trial calls allowed (default 1).
	HalfOpenRequests uint32
}

// Breaker guards calls to one upstream. Only transport and timeout
// failures count against it; a well-formed but unusable answer means
// the upstream is reachable.
type Breaker struct {
	upstream string
	cb       *gobreaker.CircuitBreaker
}

// NewBreaker creates a breaker named after the upstream it guards
func NewBreaker(upstream string, s BreakerSettings, logger *slog.Logger) *Breaker {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenTimeout == 0 {
		s.OpenTimeout = 30 * time.Second
	}
	if s.HalfOpenRequests == 0 {
		s.HalfOpenRequests = 1
	}

	threshold := s.ConsecutiveFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        upstream,
		MaxRequests: s.HalfOpenRequests,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"upstream", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				!(errors.Is(err, domain.ErrUpstreamTransport) || errors.Is(err, domain.ErrUpstreamTimeout))
		},
	})

	return &Breaker{upstream: upstream, cb: cb}
}

// State reports the breaker state ("closed", "half-open", "open").
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// Execute runs fn through the breaker for callers without a result type.
func (b *Breaker) Execute(fn func() error) error {
	_, err := Run(b, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Run executes fn through the breaker. When the breaker rejects the call
// the error is a transport-class UpstreamError.
func Run[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	out, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, &domain.UpstreamError{
				Kind:     domain.ErrUpstreamTransport,
				Upstream: b.upstream,
				Message:  "circuit open",
				Err:      err,
			}
		}
		return zero, err
	}
	v, _ := out.(T)
	return v, nil
}

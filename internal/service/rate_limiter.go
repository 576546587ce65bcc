package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// RateLimitStore keeps per-key request counters for fixed windows.
type RateLimitStore interface {
	// Increment counts one hit for key and returns the hits in the current
	// window and when that window ends. A new window starts on the first
	// hit after the previous one ended.
	Increment(ctx context.Context, key string, window time.Duration) (hits int, resetAt time.Time, err error)
	// ResetAll drops every counter.
	ResetAll(ctx context.Context) error
}

type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter allows at most limit hits per key in each window.
type RateLimiter struct {
	store  RateLimitStore
	limit  int
	window time.Duration
}

func NewRateLimiter(store RateLimitStore, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		store:  store,
		limit:  limit,
		window: window,
	}
}

func (rl *RateLimiter) Limit() int {
	return rl.limit
}

func (rl *RateLimiter) Window() time.Duration {
	return rl.window
}

// Allow records a hit for key. A failing store lets the request through.
func (rl *RateLimiter) Allow(ctx context.Context, key string) RateLimitDecision {
	hits, resetAt, err := rl.store.Increment(ctx, key, rl.window)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("rate limit check failed, allowing request")
		return RateLimitDecision{
			Allowed:   true,
			Limit:     rl.limit,
			Remaining: rl.limit - 1,
			ResetAt:   time.Now().Add(rl.window),
		}
	}

	remaining := rl.limit - hits
	if remaining < 0 {
		remaining = 0
	}

	return RateLimitDecision{
		Allowed:   hits <= rl.limit,
		Limit:     rl.limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

// ResetAll clears the counters of every client.
func (rl *RateLimiter) ResetAll(ctx context.Context) error {
	return rl.store.ResetAll(ctx)
}

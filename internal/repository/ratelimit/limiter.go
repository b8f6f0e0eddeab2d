// Package ratelimit implements a fixed-window request counter per client
// identifier on top of the key-value store. The limiter fails open: if the
// store is unreachable, requests are allowed rather than dropped.
package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pixelfolio/api/internal/db"
	"github.com/pixelfolio/api/internal/domain"
)

const keyPrefix = "ratelimit:"

type counter struct {
	Count   int   `json:"count"`
	ResetAt int64 `json:"resetAt"`
}

// store is the consumer interface for rate limit counters.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Limiter counts requests per identifier within a fixed window.
type Limiter struct {
	store  store
	max    int
	window time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// New creates a limiter allowing max requests per window.
func New(s store, max int, window time.Duration, logger *zap.Logger) *Limiter {
	return &Limiter{
		store:  s,
		max:    max,
		window: window,
		logger: logger,
		now:    time.Now,
	}
}

// Allow consumes one request slot for the identifier (e.g. a client IP).
// The read-modify-write is not atomic; a concurrent burst can slightly
// overshoot the limit, which is acceptable for abuse protection.
func (l *Limiter) Allow(ctx context.Context, identifier string) domain.RateLimitResult {
	key := keyPrefix + identifier
	now := l.now().Unix()
	windowSec := int(l.window.Seconds())
	windowEnd := now + int64(windowSec)

	data, err := l.store.Get(ctx, key)
	if err != nil && !errors.Is(err, db.ErrKeyNotFound) {
		l.logger.Warn("Rate limit check failed, allowing request", zap.Error(err))
		return l.failOpen(windowEnd, windowSec)
	}

	var c counter
	if err == nil {
		if jsonErr := json.Unmarshal(data, &c); jsonErr != nil {
			l.logger.Warn("Corrupt rate limit counter, resetting", zap.String("key", key), zap.Error(jsonErr))
			c = counter{}
		}
	}

	if c.Count == 0 {
		c = counter{Count: 1, ResetAt: windowEnd}
		l.put(ctx, key, c, windowSec)
		return domain.RateLimitResult{
			Allowed:    true,
			Remaining:  l.max - 1,
			ResetAt:    windowEnd,
			RetryAfter: windowSec,
		}
	}

	if c.Count >= l.max {
		retryAfter := int(c.ResetAt - now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return domain.RateLimitResult{
			Allowed:    false,
			Remaining:  0,
			ResetAt:    c.ResetAt,
			RetryAfter: retryAfter,
		}
	}

	c.Count++
	l.put(ctx, key, c, windowSec)
	return domain.RateLimitResult{
		Allowed:    true,
		Remaining:  l.max - c.Count,
		ResetAt:    c.ResetAt,
		RetryAfter: windowSec,
	}
}

func (l *Limiter) put(ctx context.Context, key string, c counter, windowSec int) {
	data, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := l.store.SetWithTTL(ctx, key, data, time.Duration(windowSec)*time.Second); err != nil {
		l.logger.Warn("Failed to store rate limit counter", zap.String("key", key), zap.Error(err))
	}
}

func (l *Limiter) failOpen(windowEnd int64, windowSec int) domain.RateLimitResult {
	return domain.RateLimitResult{
		Allowed:    true,
		Remaining:  l.max,
		ResetAt:    windowEnd,
		RetryAfter: windowSec,
	}
}

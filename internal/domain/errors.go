package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery signals a blank or whitespace-only query.
	ErrEmptyQuery = errors.New("empty query")
	// ErrInvalidRequest signals a malformed or over-limit chat request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrStoreUnavailable signals that the key-value store is unreachable.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrCompletionProvider signals a chat completion provider failure.
	ErrCompletionProvider = errors.New("completion provider error")
)

// RateLimitedError wraps ErrRateLimited with retry timing for the transport layer.
type RateLimitedError struct {
	RetryAfter int
	ResetAt    int64
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: retry after %ds", ErrRateLimited.Error(), e.RetryAfter)
}

func (e *RateLimitedError) Unwrap() error { return ErrRateLimited }

// NewRateLimited creates a rate limited error.
func NewRateLimited(retryAfter int, resetAt int64) error {
	return &RateLimitedError{RetryAfter: retryAfter, ResetAt: resetAt}
}

// Package db defines the storage contract for the remote key-value store.
// Consumers depend on the narrow sub-interfaces, not the full facade.
package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
type Store interface {
	Pinger
	KVStore
	SetStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SetItem holds a single key+value pair for pipelined SET. A zero TTL
// stores the key without expiry.
type SetItem struct {
	Key   string
	Value []byte
	TTL   time.Duration
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// GetMulti fetches multiple keys in a single pipelined round-trip.
	// The result has one element per key; missing keys yield a nil element,
	// not an error.
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetMulti stores multiple keys in a single pipelined round-trip,
	// preserving item order.
	SetMulti(ctx context.Context, items []SetItem) error
	Del(ctx context.Context, key string) error
}

// SetStore provides set operations.
type SetStore interface {
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Package querycache decorates an embedder with a TTL-bounded cache of query
// embeddings in the key-value store. Repeat questions from visitors are
// common, and every cache hit is an embedding API call saved.
package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/pixelfolio/api/internal/db"
	"github.com/pixelfolio/api/internal/domain"
	"github.com/pixelfolio/api/internal/hash"
)

var cacheKeyPrefix = domain.KeyPrefix + "query:embedding:"

// store is the consumer interface for the query embedding cache.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedEmbedder caches query embeddings keyed by the hash of the
// normalized query text. Entries expire by TTL only; there is no explicit
// invalidation. Two concurrent misses for the same query may both call the
// inner embedder; the result is idempotent and the write is last-write-wins.
type CachedEmbedder struct {
	inner      domain.Embedder
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Embedder,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEmbedder {
	return &CachedEmbedder{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Embed returns a cached embedding or calls the inner embedder. Queries
// differing only in whitespace normalize to the same cache key. A cache miss
// or unreadable entry is never an error; TotalTokens is 0 on a hit.
func (c *CachedEmbedder) Embed(ctx context.Context, query string) (domain.EmbeddingResult, error) {
	normalized := hash.NormalizeQuery(query)
	if normalized == "" {
		return domain.EmbeddingResult{}, fmt.Errorf("embed query: %w", domain.ErrEmptyQuery)
	}

	key := cacheKeyPrefix + hash.Text(normalized)

	if vec, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return domain.EmbeddingResult{Embedding: vec}, nil
	}

	c.incCache("miss")

	result, err := c.inner.Embed(ctx, normalized)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed query: %w", err)
	}

	c.putToCache(ctx, key, result.Embedding)
	return result, nil
}

func (c *CachedEmbedder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedEmbedder) getFromCache(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached query embedding", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var vec []float32
	if err := json.Unmarshal(data, &vec); err != nil || len(vec) == 0 {
		c.logger.Warn("Failed to parse cached query embedding", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return vec, true
}

func (c *CachedEmbedder) putToCache(ctx context.Context, key string, vec []float32) {
	data, err := json.Marshal(vec)
	if err != nil {
		c.logger.Warn("Failed to encode query embedding", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache query embedding", zap.String("key", key), zap.Error(err))
	}
}

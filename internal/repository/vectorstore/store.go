// Package vectorstore persists document embeddings, the document-id set, and
// the corpus fingerprint in the key-value store. Document content itself
// never leaves the in-process corpus; only derived vectors are stored.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pixelfolio/api/internal/db"
	"github.com/pixelfolio/api/internal/domain"
	"github.com/pixelfolio/api/internal/hash"
)

var (
	idsKey             = domain.KeyPrefix + "documents:ids"
	fingerprintKey     = domain.KeyPrefix + "corpus:hash"
	embeddingKeyPrefix = domain.KeyPrefix + "embedding:"
)

func embeddingKey(docID string) string {
	return embeddingKeyPrefix + docID
}

// store is the consumer interface for embedding persistence.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMulti(ctx context.Context, items []db.SetItem) error
	Del(ctx context.Context, key string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Store maps document ids to embedding vectors and tracks the corpus
// fingerprint used for staleness detection.
type Store struct {
	db           store
	embedder     domain.Embedder
	embeddingTTL time.Duration
	logger       *zap.Logger
}

// New creates a vector store. embeddingTTL bounds the lifetime of persisted
// per-document embeddings (storage hygiene, not a correctness requirement).
func New(dbStore store, embedder domain.Embedder, embeddingTTL time.Duration, logger *zap.Logger) *Store {
	return &Store{
		db:           dbStore,
		embedder:     embedder,
		embeddingTTL: embeddingTTL,
		logger:       logger,
	}
}

// IsStale reports whether the persisted embeddings no longer match the given
// corpus: true when no document ids are recorded or when the persisted
// fingerprint differs from the current one.
func (s *Store) IsStale(ctx context.Context, documents []domain.Document) (bool, error) {
	ids, err := s.db.SMembers(ctx, idsKey)
	if err != nil {
		return false, fmt.Errorf("read document ids: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if len(ids) == 0 {
		return true, nil
	}

	stored, err := s.db.Get(ctx, fingerprintKey)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("read corpus fingerprint: %w: %w", domain.ErrStoreUnavailable, err)
	}

	return string(stored) != hash.FingerprintCorpus(documents), nil
}

// Rebuild re-embeds every document and replaces the id set, the per-document
// records, and the fingerprint. Writes are ordered so the fingerprint lands
// last: a reader that races the rebuild can observe a fresh id set with an
// old fingerprint and trigger one redundant rebuild, but never a fresh
// fingerprint over stale records.
func (s *Store) Rebuild(ctx context.Context, documents []domain.Document) error {
	if len(documents) == 0 {
		return nil
	}

	// One embedding call per document; the provider has no batch endpoint
	// for this model and the corpus is small.
	items := make([]db.SetItem, 0, len(documents))
	ids := make([]string, 0, len(documents))
	for _, doc := range documents {
		result, err := s.embedder.Embed(ctx, doc.Content)
		if err != nil {
			return fmt.Errorf("embed document %s: %w", doc.ID, err)
		}
		data, err := marshalRecord(doc.ID, result.Embedding)
		if err != nil {
			return err
		}
		items = append(items, db.SetItem{Key: embeddingKey(doc.ID), Value: data, TTL: s.embeddingTTL})
		ids = append(ids, doc.ID)
	}

	fingerprint := hash.FingerprintCorpus(documents)

	if err := s.db.Del(ctx, idsKey); err != nil {
		return fmt.Errorf("clear document ids: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if err := s.db.SAdd(ctx, idsKey, ids...); err != nil {
		return fmt.Errorf("write document ids: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if err := s.db.SetMulti(ctx, items); err != nil {
		return fmt.Errorf("write embeddings: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if err := s.db.Set(ctx, fingerprintKey, []byte(fingerprint)); err != nil {
		return fmt.Errorf("write corpus fingerprint: %w: %w", domain.ErrStoreUnavailable, err)
	}

	s.logger.Info("Vector store rebuilt",
		zap.Int("documents", len(documents)),
		zap.String("fingerprint", fingerprint),
	)
	return nil
}

// DocumentIDs returns all currently stored document ids; empty if the store
// was never built.
func (s *Store) DocumentIDs(ctx context.Context) ([]string, error) {
	ids, err := s.db.SMembers(ctx, idsKey)
	if err != nil {
		return nil, fmt.Errorf("read document ids: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return ids, nil
}

// Embedding is a point lookup; ok is false when no valid record exists.
func (s *Store) Embedding(ctx context.Context, docID string) ([]float32, bool, error) {
	data, err := s.db.Get(ctx, embeddingKey(docID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read embedding %s: %w: %w", docID, domain.ErrStoreUnavailable, err)
	}
	vec, err := unmarshalRecord(data)
	if err != nil {
		return nil, false, nil
	}
	return vec, true, nil
}

// EmbeddingsBatch fetches embeddings for the given ids in one pipelined
// round-trip. Missing or corrupt records are skipped: one bad entry should
// degrade relevance, not availability.
func (s *Store) EmbeddingsBatch(ctx context.Context, docIDs []string) (map[string][]float32, error) {
	if len(docIDs) == 0 {
		return nil, nil
	}

	keys := make([]string, len(docIDs))
	for i, id := range docIDs {
		keys[i] = embeddingKey(id)
	}

	raw, err := s.db.GetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("read embeddings: %w: %w", domain.ErrStoreUnavailable, err)
	}

	out := make(map[string][]float32, len(docIDs))
	for i, data := range raw {
		if data == nil {
			continue
		}
		vec, err := unmarshalRecord(data)
		if err != nil {
			s.logger.Warn("Skipping corrupt embedding record",
				zap.String("doc_id", docIDs[i]), zap.Error(err))
			continue
		}
		out[docIDs[i]] = vec
	}

	return out, nil
}

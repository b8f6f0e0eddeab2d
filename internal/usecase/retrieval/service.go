// Package retrieval implements the retrieval pipeline: given a visitor
// query it keeps the vector store fresh, embeds the query, and ranks the
// corpus documents by cosine similarity.
package retrieval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pixelfolio/api/internal/domain"
	"github.com/pixelfolio/api/internal/hash"
	"github.com/pixelfolio/api/internal/metrics"
)

// Service is the public entry point of the retrieval pipeline.
type Service struct {
	store     VectorStore
	embed     Embedder
	threshold float64
	logger    *zap.Logger
}

// New creates a retrieval service. threshold filters out results whose
// similarity is at or below it.
func New(store VectorStore, embed Embedder, threshold float64, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		embed:     embed,
		threshold: threshold,
		logger:    logger,
	}
}

// SearchSimilarDocuments returns up to limit document ids ranked by
// similarity to the query. The store is rebuilt first if it is empty or its
// fingerprint no longer matches the corpus (self-healing; no admin step).
//
// Safe for concurrent use: a staleness check racing a rebuild costs at most
// one redundant rebuild, and ranking uses whatever embeddings are present at
// the batch-fetch instant.
func (s *Service) SearchSimilarDocuments(
	ctx context.Context, query string, limit int, documents []domain.Document,
) ([]domain.SearchResult, error) {
	if hash.NormalizeQuery(query) == "" {
		return nil, fmt.Errorf("search: %w", domain.ErrEmptyQuery)
	}

	if err := s.ensureFresh(ctx, documents); err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	ids, err := s.store.DocumentIDs(ctx)
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("read document ids: %w", err)
	}
	if len(ids) == 0 {
		// Empty corpus: nothing to rank.
		metrics.RetrievalRequestsTotal.WithLabelValues("success").Inc()
		return nil, nil
	}

	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("embed query: %w", err)
	}

	embeddings, err := s.store.EmbeddingsBatch(ctx, ids)
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetch embeddings: %w", err)
	}

	results := rankDocuments(embResult.Embedding, ids, embeddings, s.threshold, limit)

	metrics.RetrievalRequestsTotal.WithLabelValues("success").Inc()
	metrics.RetrievalResultsReturned.Observe(float64(len(results)))
	return results, nil
}

// ensureFresh rebuilds the store when it is empty or stale. An empty corpus
// never triggers a rebuild; the caller gets an empty result instead.
func (s *Service) ensureFresh(ctx context.Context, documents []domain.Document) error {
	ids, err := s.store.DocumentIDs(ctx)
	if err != nil {
		return fmt.Errorf("read document ids: %w", err)
	}

	reason := ""
	if len(ids) == 0 {
		reason = "empty"
	} else {
		stale, err := s.store.IsStale(ctx, documents)
		if err != nil {
			return fmt.Errorf("staleness check: %w", err)
		}
		if stale {
			reason = "stale"
		}
	}

	if reason == "" || len(documents) == 0 {
		return nil
	}

	s.logger.Info("Rebuilding vector store",
		zap.String("reason", reason),
		zap.Int("documents", len(documents)),
	)
	metrics.RetrievalRebuildsTotal.WithLabelValues(reason).Inc()

	if err := s.store.Rebuild(ctx, documents); err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	return nil
}

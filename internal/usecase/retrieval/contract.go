package retrieval

import (
	"context"

	"github.com/pixelfolio/api/internal/domain"
)

// VectorStore defines the persistence contract for document embeddings.
type VectorStore interface {
	IsStale(ctx context.Context, documents []domain.Document) (bool, error)
	Rebuild(ctx context.Context, documents []domain.Document) error
	DocumentIDs(ctx context.Context) ([]string, error)
	EmbeddingsBatch(ctx context.Context, docIDs []string) (map[string][]float32, error)
}

// Embedder vectorizes query text; in production this is the cached decorator.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

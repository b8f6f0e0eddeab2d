package chat

import (
	"context"

	"github.com/pixelfolio/api/internal/domain"
)

// Retriever finds corpus documents relevant to a query.
type Retriever interface {
	SearchSimilarDocuments(
		ctx context.Context, query string, limit int, documents []domain.Document,
	) ([]domain.SearchResult, error)
}

// Limiter consumes one request slot per client identifier.
type Limiter interface {
	Allow(ctx context.Context, identifier string) domain.RateLimitResult
}

// Completer streams a chat completion, invoking onDelta per content chunk.
type Completer interface {
	StreamCompletion(
		ctx context.Context, system string, messages []domain.ChatMessage, onDelta func(delta string) error,
	) error
}

package chat

import (
	"context"

	"github.com/pixelfolio/api/internal/domain"
)

type fakeRetriever struct {
	results []domain.SearchResult
	err     error
	calls   int
	query   string
	limit   int
}

func (f *fakeRetriever) SearchSimilarDocuments(
	_ context.Context, query string, limit int, _ []domain.Document,
) ([]domain.SearchResult, error) {
	f.calls++
	f.query = query
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeLimiter struct {
	result domain.RateLimitResult
	calls  int
	id     string
}

func (f *fakeLimiter) Allow(_ context.Context, identifier string) domain.RateLimitResult {
	f.calls++
	f.id = identifier
	return f.result
}

type fakeCompleter struct {
	deltas   []string
	err      error
	calls    int
	system   string
	messages []domain.ChatMessage
}

func (f *fakeCompleter) StreamCompletion(
	_ context.Context, system string, messages []domain.ChatMessage, onDelta func(delta string) error,
) error {
	f.calls++
	f.system = system
	f.messages = messages
	if f.err != nil {
		return f.err
	}
	for _, d := range f.deltas {
		if err := onDelta(d); err != nil {
			return err
		}
	}
	return nil
}

func allowAll() *fakeLimiter {
	return &fakeLimiter{result: domain.RateLimitResult{Allowed: true, Remaining: 9}}
}

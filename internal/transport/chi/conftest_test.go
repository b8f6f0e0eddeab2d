package chi

import (
	"context"

	"github.com/pixelfolio/api/internal/domain"
)

type fakeRetriever struct {
	results []domain.SearchResult
	err     error
}

func (f *fakeRetriever) SearchSimilarDocuments(
	_ context.Context, _ string, _ int, _ []domain.Document,
) ([]domain.SearchResult, error) {
	return f.results, f.err
}

type fakeLimiter struct {
	result domain.RateLimitResult
	lastID string
}

func (f *fakeLimiter) Allow(_ context.Context, identifier string) domain.RateLimitResult {
	f.lastID = identifier
	return f.result
}

type fakeCompleter struct {
	deltas []string
	err    error
}

func (f *fakeCompleter) StreamCompletion(
	_ context.Context, _ string, _ []domain.ChatMessage, onDelta func(delta string) error,
) error {
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

type fakePinger struct{ err error }

func (f *fakePinger) Ping(context.Context) error { return f.err }

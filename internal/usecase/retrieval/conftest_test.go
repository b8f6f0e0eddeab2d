package retrieval

import (
	"context"
	"strings"

	"github.com/pixelfolio/api/internal/domain"
	"github.com/pixelfolio/api/internal/hash"
)

// memVectorStore is an in-memory VectorStore that embeds via the same
// embedder the service uses, so ranking is end-to-end consistent.
type memVectorStore struct {
	embedder    Embedder
	ids         []string
	embeddings  map[string][]float32
	fingerprint string
	rebuilds    int
	isStaleErr  error
	rebuildErr  error
	idsErr      error
	batchErr    error
}

func newMemVectorStore(embedder Embedder) *memVectorStore {
	return &memVectorStore{
		embedder:   embedder,
		embeddings: make(map[string][]float32),
	}
}

func (m *memVectorStore) IsStale(_ context.Context, documents []domain.Document) (bool, error) {
	if m.isStaleErr != nil {
		return false, m.isStaleErr
	}
	if len(m.ids) == 0 {
		return true, nil
	}
	return m.fingerprint != hash.FingerprintCorpus(documents), nil
}

func (m *memVectorStore) Rebuild(ctx context.Context, documents []domain.Document) error {
	if m.rebuildErr != nil {
		return m.rebuildErr
	}
	m.rebuilds++
	m.ids = nil
	m.embeddings = make(map[string][]float32)
	for _, doc := range documents {
		result, err := m.embedder.Embed(ctx, doc.Content)
		if err != nil {
			return err
		}
		m.ids = append(m.ids, doc.ID)
		m.embeddings[doc.ID] = result.Embedding
	}
	m.fingerprint = hash.FingerprintCorpus(documents)
	return nil
}

func (m *memVectorStore) DocumentIDs(_ context.Context) ([]string, error) {
	if m.idsErr != nil {
		return nil, m.idsErr
	}
	return m.ids, nil
}

func (m *memVectorStore) EmbeddingsBatch(_ context.Context, docIDs []string) (map[string][]float32, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make(map[string][]float32, len(docIDs))
	for _, id := range docIDs {
		if vec, ok := m.embeddings[id]; ok {
			out[id] = vec
		}
	}
	return out, nil
}

// vocabEmbedder maps text to a bag-of-words vector over a fixed vocabulary,
// giving deterministic, semantically plausible similarities.
type vocabEmbedder struct {
	vocab []string
	calls int
	err   error
}

func (v *vocabEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	v.calls++
	if v.err != nil {
		return domain.EmbeddingResult{}, v.err
	}
	vec := make([]float32, len(v.vocab))
	for _, word := range strings.Fields(strings.ToLower(text)) {
		for i, term := range v.vocab {
			if word == term {
				vec[i]++
			}
		}
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}

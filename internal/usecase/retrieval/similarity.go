package retrieval

import (
	"math"
	"sort"

	"github.com/pixelfolio/api/internal/domain"
)

// cosineSimilarity returns the cosine of the angle between a and b in
// [-1, 1]. A zero-magnitude vector or a length mismatch yields 0: a
// malformed embedding should rank as irrelevant, not crash the ranking.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

// rankDocuments scores every embedding against the query vector, drops
// scores at or below threshold, and returns at most limit results sorted by
// descending score. docIDs fixes the iteration order so equal scores keep a
// stable, input-ordered tie-break.
func rankDocuments(
	queryVector []float32,
	docIDs []string,
	embeddings map[string][]float32,
	threshold float64,
	limit int,
) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(docIDs))
	for _, id := range docIDs {
		embedding, ok := embeddings[id]
		if !ok {
			continue
		}
		score := cosineSimilarity(queryVector, embedding)
		if score > threshold {
			results = append(results, domain.SearchResult{ID: id, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit >= 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Package hash provides content fingerprinting for the retrieval pipeline:
// stable digests for cache keys and corpus change detection.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/pixelfolio/api/internal/domain"
)

// fingerprintSeparator joins the normalized document entries before hashing.
const fingerprintSeparator = "\n---\n"

// Text returns the SHA-256 digest of the UTF-8 bytes of text as lowercase hex.
func Text(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// FingerprintCorpus computes a single digest over the whole document set.
// Each document contributes "{id}\n{content}"; entries are sorted so the
// result is independent of input ordering. Metadata is deliberately excluded:
// metadata edits must not invalidate persisted embeddings.
func FingerprintCorpus(documents []domain.Document) string {
	entries := make([]string, len(documents))
	for i, d := range documents {
		entries[i] = d.ID + "\n" + d.Content
	}
	sort.Strings(entries)
	return Text(strings.Join(entries, fingerprintSeparator))
}

// NormalizeQuery trims the query and collapses internal whitespace runs to
// single spaces, so whitespace variants share one cache entry.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

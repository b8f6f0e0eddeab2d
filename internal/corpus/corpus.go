// Package corpus loads the static portfolio document set at process start.
// The corpus is the single source of truth for document content; the store
// only ever holds derived embeddings.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pixelfolio/api/internal/domain"
)

type fileDocument struct {
	ID       string            `yaml:"id"`
	Content  string            `yaml:"content"`
	Metadata map[string]string `yaml:"metadata"`
}

type corpusFile struct {
	Documents []fileDocument `yaml:"documents"`
}

// Load reads and validates the document corpus from a YAML file.
func Load(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}

	var file corpusFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}

	docs := make([]domain.Document, 0, len(file.Documents))
	seen := make(map[string]struct{}, len(file.Documents))

	for i, fd := range file.Documents {
		id := strings.TrimSpace(fd.ID)
		if id == "" {
			return nil, fmt.Errorf("corpus document %d: empty id", i)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("corpus document %d: duplicate id %q", i, id)
		}
		if strings.TrimSpace(fd.Content) == "" {
			return nil, fmt.Errorf("corpus document %q: empty content", id)
		}
		seen[id] = struct{}{}

		docs = append(docs, domain.Document{
			ID:       id,
			Content:  fd.Content,
			Metadata: fd.Metadata,
		})
	}

	return docs, nil
}

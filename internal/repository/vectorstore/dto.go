package vectorstore

import (
	"encoding/json"
	"fmt"
)

// embeddingRecord is the persisted per-document embedding entry.
type embeddingRecord struct {
	DocID     string    `json:"docId"`
	Embedding []float32 `json:"embedding"`
}

func marshalRecord(docID string, embedding []float32) ([]byte, error) {
	data, err := json.Marshal(embeddingRecord{DocID: docID, Embedding: embedding})
	if err != nil {
		return nil, fmt.Errorf("encode embedding record %s: %w", docID, err)
	}
	return data, nil
}

// unmarshalRecord narrows a raw stored payload into an embedding vector.
// Anything that doesn't match the expected shape is rejected here so
// unchecked external data never reaches the ranking layer.
func unmarshalRecord(data []byte) ([]float32, error) {
	var rec embeddingRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode embedding record: %w", err)
	}
	if len(rec.Embedding) == 0 {
		return nil, fmt.Errorf("embedding record has no vector")
	}
	return rec.Embedding, nil
}

package vectorstore

import (
	"context"

	"github.com/pixelfolio/api/internal/db"
	"github.com/pixelfolio/api/internal/domain"
)

// fakeDB records the order of write operations so tests can assert the
// fingerprint lands last.
type fakeDB struct {
	kv   map[string][]byte
	sets map[string][]string
	ops  []string

	getErr      error
	getMultiErr error
	setErr      error
	setMultiErr error
	delErr      error
	saddErr     error
	smembersErr error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		kv:   make(map[string][]byte),
		sets: make(map[string][]string),
	}
}

func (f *fakeDB) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeDB) GetMulti(_ context.Context, keys []string) ([][]byte, error) {
	if f.getMultiErr != nil {
		return nil, f.getMultiErr
	}
	out := make([][]byte, len(keys))
	for i, key := range keys {
		if v, ok := f.kv[key]; ok {
			out[i] = v
		}
	}
	return out, nil
}

func (f *fakeDB) Set(_ context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.ops = append(f.ops, "SET "+key)
	f.kv[key] = value
	return nil
}

func (f *fakeDB) SetMulti(_ context.Context, items []db.SetItem) error {
	if f.setMultiErr != nil {
		return f.setMultiErr
	}
	f.ops = append(f.ops, "SETMULTI")
	for _, item := range items {
		f.kv[item.Key] = item.Value
	}
	return nil
}

func (f *fakeDB) Del(_ context.Context, key string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.ops = append(f.ops, "DEL "+key)
	delete(f.kv, key)
	delete(f.sets, key)
	return nil
}

func (f *fakeDB) SAdd(_ context.Context, key string, members ...string) error {
	if f.saddErr != nil {
		return f.saddErr
	}
	f.ops = append(f.ops, "SADD "+key)
	f.sets[key] = append(f.sets[key], members...)
	return nil
}

func (f *fakeDB) SMembers(_ context.Context, key string) ([]string, error) {
	if f.smembersErr != nil {
		return nil, f.smembersErr
	}
	return f.sets[key], nil
}

// stubEmbedder returns a fixed vector per document content.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (s *stubEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	s.calls++
	if s.err != nil {
		return domain.EmbeddingResult{}, s.err
	}
	vec, ok := s.vectors[text]
	if !ok {
		vec = []float32{1, 0, 0}
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}

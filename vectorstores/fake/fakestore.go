package fake

import (
	"context"
	"fmt"

	"github.com/sevigo/lernkit/schema"
	"github.com/sevigo/lernkit/vectorstores"
)

// Store is an in-memory vector store for testing purposes.
type Store struct {
	chunks map[string]schema.Chunk
	order  []string
	idSeq  int
}

var _ vectorstores.VectorStore = (*Store)(nil)

// New creates a new fake vector store.
func New() *Store {
	return &Store{
		chunks: make(map[string]schema.Chunk),
	}
}

// AddChunks adds chunks to the in-memory store.
func (s *Store) AddChunks(_ context.Context, chunks []schema.Chunk, _ ...vectorstores.Option) ([]string, error) {
	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		id := fmt.Sprintf("fake-id-%d", s.idSeq)
		s.chunks[id] = chunk
		s.order = append(s.order, id)
		ids[i] = id
		s.idSeq++
	}
	return ids, nil
}

// SimilaritySearch returns the first N chunks in insertion order,
// simulating a search.
func (s *Store) SimilaritySearch(_ context.Context, _ string, numChunks int, _ ...vectorstores.Option) ([]schema.Chunk, error) {
	var results []schema.Chunk
	for _, id := range s.order {
		if len(results) >= numChunks {
			break
		}
		results = append(results, s.chunks[id])
	}
	return results, nil
}

// SimilaritySearchWithScores returns chunks with a faked score of 1.0.
func (s *Store) SimilaritySearchWithScores(ctx context.Context, query string, numChunks int, options ...vectorstores.Option) ([]vectorstores.ChunkWithScore, error) {
	chunks, err := s.SimilaritySearch(ctx, query, numChunks, options...)
	if err != nil {
		return nil, err
	}

	results := make([]vectorstores.ChunkWithScore, len(chunks))
	for i, chunk := range chunks {
		results[i] = vectorstores.ChunkWithScore{
			Chunk: chunk,
			Score: 1.0,
		}
	}
	return results, nil
}

// ListCollections returns a dummy collection name.
func (s *Store) ListCollections(_ context.Context) ([]string, error) {
	return []string{"fake-collection"}, nil
}

// Chunks returns all chunks currently in the fake store.
func (s *Store) Chunks() []schema.Chunk {
	chunks := make([]schema.Chunk, 0, len(s.order))
	for _, id := range s.order {
		chunks = append(chunks, s.chunks[id])
	}
	return chunks
}

package fake

import (
	"context"

	"github.com/sevigo/lernkit/schema"
)

// Retriever is a mock retriever for testing purposes.
type Retriever struct {
	ChunksToReturn []schema.Chunk
	ErrToReturn    error
	LastQuery      string
}

// NewRetriever creates a new fake retriever.
func NewRetriever() *Retriever {
	return &Retriever{}
}

// GetRelevantChunks returns the pre-configured chunks and error.
func (r *Retriever) GetRelevantChunks(_ context.Context, query string) ([]schema.Chunk, error) {
	r.LastQuery = query
	return r.ChunksToReturn, r.ErrToReturn
}

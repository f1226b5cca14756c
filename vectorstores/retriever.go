package vectorstores

import (
	"context"

	"github.com/sevigo/lernkit/schema"
)

// retrieverImpl implements the schema.Retriever interface.
type retrieverImpl struct {
	vectorStore VectorStore
	numChunks   int
}

// GetRelevantChunks retrieves chunks from the vector store.
func (r retrieverImpl) GetRelevantChunks(ctx context.Context, query string) ([]schema.Chunk, error) {
	return r.vectorStore.SimilaritySearch(ctx, query, r.numChunks)
}

// ToRetriever creates a retriever from a vector store.
func ToRetriever(vectorStore VectorStore, numChunks int) schema.Retriever {
	return retrieverImpl{
		vectorStore: vectorStore,
		numChunks:   numChunks,
	}
}

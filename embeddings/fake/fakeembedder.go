package fake

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/sevigo/lernkit/embeddings"
)

// Embedder returns deterministic vectors derived from the text hash.
type Embedder struct {
	mu        sync.Mutex
	Dimension int
	CallCount int
	Err       error
}

var _ embeddings.Embedder = (*Embedder)(nil)

func NewFakeEmbedder(dimension int) *Embedder {
	if dimension <= 0 {
		dimension = 4
	}
	return &Embedder{Dimension: dimension}
}

func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.CallCount++
	if e.Err != nil {
		return nil, e.Err
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = e.vector(text)
	}
	return vectors, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.CallCount++
	if e.Err != nil {
		return nil, e.Err
	}
	return e.vector(text), nil
}

func (e *Embedder) GetDimension(ctx context.Context) (int, error) {
	if e.Err != nil {
		return 0, e.Err
	}
	return e.Dimension, nil
}

func (e *Embedder) vector(text string) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	v := make([]float32, e.Dimension)
	for i := range v {
		seed = seed*1664525 + 1013904223
		v[i] = float32(seed%1000) / 1000
	}
	return v
}

// Package embeddings defines the embedding interface used by the vector
// stores, plus a batching wrapper around any concrete provider.
package embeddings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	GetDimension(ctx context.Context) (int, error)
}

var ErrEmptyText = errors.New("embeddings: text cannot be empty")

// Batcher splits document batches before handing them to the underlying
// provider and embeds the batches concurrently.
type Batcher struct {
	client Embedder
	opts   options
}

var _ Embedder = (*Batcher)(nil)

func NewBatcher(client Embedder, opts ...Option) (*Batcher, error) {
	o := options{
		StripNewLines: true,
		BatchSize:     32,
		MaxConcurrent: 8,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.BatchSize <= 0 {
		o.BatchSize = 32
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 8
	}

	if _, ok := client.(*Batcher); ok {
		return nil, errors.New("embeddings: cannot wrap an already-wrapped Batcher")
	}

	return &Batcher{
		client: client,
		opts:   o,
	}, nil
}

func (b *Batcher) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	return b.client.EmbedQuery(ctx, b.preprocess(text))
}

func (b *Batcher) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	processed := make([]string, len(texts))
	for i, text := range texts {
		processed[i] = b.preprocess(text)
	}

	batches := batchTexts(processed, b.opts.BatchSize)
	results := make([][][]float32, len(batches))
	errCh := make(chan error, len(batches))
	semaphore := make(chan struct{}, b.opts.MaxConcurrent)

	var wg sync.WaitGroup
	for i, batch := range batches {
		wg.Add(1)
		go func(i int, batch []string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				return
			}

			vectors, err := b.client.EmbedDocuments(ctx, batch)
			if err != nil {
				errCh <- fmt.Errorf("error embedding batch %d: %w", i, err)
				return
			}
			results[i] = vectors
		}(i, batch)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all := make([][]float32, 0, len(texts))
	for _, batch := range results {
		all = append(all, batch...)
	}
	return all, nil
}

func (b *Batcher) GetDimension(ctx context.Context) (int, error) {
	return b.client.GetDimension(ctx)
}

func (b *Batcher) preprocess(text string) string {
	if b.opts.StripNewLines {
		return strings.ReplaceAll(text, "\n", " ")
	}
	return text
}

func batchTexts(texts []string, batchSize int) [][]string {
	if batchSize <= 0 {
		return [][]string{texts}
	}

	numBatches := (len(texts) + batchSize - 1) / batchSize
	batches := make([][]string, 0, numBatches)

	for i := 0; i < len(texts); i += batchSize {
		end := min(i+batchSize, len(texts))
		batches = append(batches, texts[i:end])
	}

	return batches
}

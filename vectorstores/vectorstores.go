package vectorstores

import (
	"context"
	"errors"
	"maps"

	"github.com/sevigo/lernkit/embeddings"
	"github.com/sevigo/lernkit/schema"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
)

type VectorStore interface {
	AddChunks(ctx context.Context, chunks []schema.Chunk, options ...Option) ([]string, error)
	SimilaritySearch(ctx context.Context, query string, numChunks int, options ...Option) ([]schema.Chunk, error)
	SimilaritySearchWithScores(ctx context.Context, query string, numChunks int, options ...Option) ([]ChunkWithScore, error)
	ListCollections(ctx context.Context) ([]string, error)
}

type ChunkWithScore struct {
	Chunk schema.Chunk
	Score float32
}

type Option func(*Options)

type Options struct {
	Embedder       embeddings.Embedder
	NameSpace      string
	ScoreThreshold float32
	Filters        map[string]any
}

func WithEmbedder(embedder embeddings.Embedder) Option {
	return func(opts *Options) {
		opts.Embedder = embedder
	}
}

func WithNameSpace(namespace string) Option {
	return func(opts *Options) {
		opts.NameSpace = namespace
	}
}

func WithScoreThreshold(threshold float32) Option {
	return func(opts *Options) {
		opts.ScoreThreshold = threshold
	}
}

func WithFilters(filters map[string]any) Option {
	return func(opts *Options) {
		if opts.Filters == nil {
			opts.Filters = make(map[string]any)
		}
		maps.Copy(opts.Filters, filters)
	}
}

func ParseOptions(options ...Option) Options {
	opts := Options{
		Filters: make(map[string]any),
	}
	for _, option := range options {
		option(&opts)
	}
	return opts
}

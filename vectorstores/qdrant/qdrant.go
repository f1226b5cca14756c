// Package qdrant implements the vector store on top of a Qdrant server,
// talking gRPC through the official go-client.
package qdrant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sevigo/lernkit/embeddings"
	"github.com/sevigo/lernkit/schema"
	"github.com/sevigo/lernkit/vectorstores"
)

var (
	ErrMissingEmbedder       = errors.New("qdrant: embedder is required but not provided")
	ErrMissingCollectionName = errors.New("qdrant: collection name is required")
	ErrInvalidNumChunks      = errors.New("qdrant: number of chunks must be positive")
	ErrInvalidURL            = errors.New("qdrant: invalid URL provided")
)

type Store struct {
	client         *qdrant.Client
	embedder       embeddings.Embedder
	collectionName string
	logger         *slog.Logger
}

var _ vectorstores.VectorStore = (*Store)(nil)

func New(opts ...Option) (*Store, error) {
	storeOptions, err := parseOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	logger := storeOptions.logger.With("component", "qdrant_store", "collection", storeOptions.collectionName)
	client, err := createQdrantClient(storeOptions, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	store := &Store{
		client:         client,
		embedder:       storeOptions.embedder,
		collectionName: storeOptions.collectionName,
		logger:         logger,
	}

	logger.Info("Qdrant store initialized successfully", "config", storeOptions.String())
	return store, nil
}

func createQdrantClient(opts options, logger *slog.Logger) (*qdrant.Client, error) {
	if opts.qdrantURL.Host == "" {
		logger.Debug("Creating default Qdrant client")
		client, err := qdrant.DefaultClient()
		if err != nil {
			return nil, fmt.Errorf("default client creation failed: %w", err)
		}
		return client, nil
	}

	portStr := opts.qdrantURL.Port()
	if portStr == "" {
		portStr = "6334"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid port %q: %w", ErrInvalidURL, portStr, err)
	}

	hostname := opts.qdrantURL.Hostname()
	logger.Debug("Creating custom Qdrant client", "host", hostname, "port", port)

	config := &qdrant.Config{
		Host: hostname,
		Port: port,
	}
	if opts.apiKey != "" {
		config.APIKey = opts.apiKey
	}

	client, err := qdrant.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("custom client creation failed: %w", err)
	}
	return client, nil
}

// AddChunks embeds the chunks and upserts them into the collection,
// creating the collection on first use.
func (s *Store) AddChunks(ctx context.Context, chunks []schema.Chunk, options ...vectorstores.Option) ([]string, error) {
	if len(chunks) == 0 {
		return []string{}, nil
	}

	if s.embedder == nil {
		return nil, ErrMissingEmbedder
	}

	start := time.Now()
	opts := vectorstores.ParseOptions(options...)
	collectionName := s.getCollectionName(opts)

	if err := s.ensureCollection(ctx, collectionName); err != nil {
		return nil, fmt.Errorf("collection preparation failed: %w", err)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.PageContent
	}
	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("chunk embedding stage failed: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		id := s.generateChunkID(chunk)
		ids[i] = id
		points[i] = &qdrant.PointStruct{
			Id:      &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: id}},
			Vectors: &qdrant.Vectors{VectorsOptions: &qdrant.Vectors_Vector{Vector: &qdrant.Vector{Data: vectors[i]}}},
			Payload: s.chunkToPayload(chunk),
		}
	}

	wait := true
	_, err = s.client.GetPointsClient().Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Chunk upsert failed", "error", err, "collection", collectionName)
		return nil, fmt.Errorf("qdrant upsert failed: %w", err)
	}

	s.logger.InfoContext(ctx, "Chunks added successfully",
		"count", len(chunks), "collection", collectionName, "duration", time.Since(start))
	return ids, nil
}

func (s *Store) SimilaritySearch(
	ctx context.Context,
	query string,
	numChunks int,
	options ...vectorstores.Option,
) ([]schema.Chunk, error) {
	results, err := s.SimilaritySearchWithScores(ctx, query, numChunks, options...)
	if err != nil {
		return nil, err
	}

	chunks := make([]schema.Chunk, len(results))
	for i, result := range results {
		chunks[i] = result.Chunk
	}
	return chunks, nil
}

func (s *Store) SimilaritySearchWithScores(
	ctx context.Context,
	query string,
	numChunks int,
	options ...vectorstores.Option,
) ([]vectorstores.ChunkWithScore, error) {
	if strings.TrimSpace(query) == "" {
		s.logger.WarnContext(ctx, "Empty query provided")
		return []vectorstores.ChunkWithScore{}, nil
	}
	if numChunks <= 0 {
		return nil, ErrInvalidNumChunks
	}
	if s.embedder == nil {
		return nil, ErrMissingEmbedder
	}

	opts := vectorstores.ParseOptions(options...)
	collectionName := s.getCollectionName(opts)

	queryVector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		s.logger.ErrorContext(ctx, "Query embedding failed", "error", err)
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	searchResult, err := s.client.GetPointsClient().Search(ctx, &qdrant.SearchPoints{
		CollectionName: collectionName,
		Vector:         queryVector,
		Limit:          uint64(numChunks),
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true},
		},
		ScoreThreshold: &opts.ScoreThreshold,
		Filter:         buildQdrantFilter(opts.Filters),
	})
	if err != nil {
		if stat, ok := status.FromError(err); ok && stat.Code() == codes.NotFound {
			s.logger.WarnContext(ctx, "Collection not found during search", "collection", collectionName)
			return nil, vectorstores.ErrCollectionNotFound
		}
		s.logger.ErrorContext(ctx, "Search failed", "error", err, "collection", collectionName)
		return nil, fmt.Errorf("qdrant search failed: %w", err)
	}

	results := searchResult.GetResult()
	chunksWithScore := make([]vectorstores.ChunkWithScore, len(results))
	for i, point := range results {
		chunksWithScore[i] = vectorstores.ChunkWithScore{
			Chunk: s.payloadToChunk(point.GetPayload()),
			Score: point.GetScore(),
		}
	}

	s.logger.DebugContext(ctx, "Similarity search completed",
		"collection", collectionName, "results", len(chunksWithScore))
	return chunksWithScore, nil
}

func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	resp, err := s.client.GetCollectionsClient().List(ctx, &qdrant.ListCollectionsRequest{})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list collections", "error", err)
		return nil, fmt.Errorf("failed to list qdrant collections: %w", err)
	}

	collections := resp.GetCollections()
	names := make([]string, len(collections))
	for i, col := range collections {
		names[i] = col.GetName()
	}
	return names, nil
}

func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrMissingCollectionName
	}

	_, err := s.client.GetCollectionsClient().Delete(ctx, &qdrant.DeleteCollection{
		CollectionName: name,
	})
	if err != nil {
		if stat, ok := status.FromError(err); ok && stat.Code() == codes.NotFound {
			return vectorstores.ErrCollectionNotFound
		}
		return fmt.Errorf("failed to delete collection: %w", err)
	}

	s.logger.InfoContext(ctx, "Collection deleted successfully", "name", name)
	return nil
}

func (s *Store) Health(ctx context.Context) error {
	_, err := s.client.GetCollectionsClient().List(ctx, &qdrant.ListCollectionsRequest{})
	if err != nil {
		s.logger.ErrorContext(ctx, "Health check failed", "error", err)
		return fmt.Errorf("qdrant health check failed: %w", err)
	}
	return nil
}

func (s *Store) generateChunkID(chunk schema.Chunk) string {
	if id, exists := chunk.Metadata["id"]; exists {
		if idStr, ok := id.(string); ok && idStr != "" {
			return idStr
		}
	}
	return uuid.New().String()
}

func (s *Store) getCollectionName(opts vectorstores.Options) string {
	if opts.NameSpace != "" {
		return opts.NameSpace
	}
	return s.collectionName
}

func (s *Store) ensureCollection(ctx context.Context, collectionName string) error {
	exists, err := s.collectionExists(ctx, collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if exists {
		return nil
	}

	if s.embedder == nil {
		return ErrMissingEmbedder
	}

	dimension, err := s.embedder.GetDimension(ctx)
	if err != nil {
		return fmt.Errorf("could not get embedder dimension: %w", err)
	}

	s.logger.InfoContext(ctx, "Creating collection automatically",
		"collection", collectionName, "dimension", dimension)

	_, err = s.client.GetCollectionsClient().Create(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(dimension),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create qdrant collection: %w", err)
	}

	// Give the server a moment to make the collection visible.
	select {
	case <-time.After(500 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}

func (s *Store) collectionExists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.GetCollectionsClient().Get(ctx, &qdrant.GetCollectionInfoRequest{
		CollectionName: name,
	})
	if err != nil {
		if stat, ok := status.FromError(err); ok && stat.Code() == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) chunkToPayload(chunk schema.Chunk) map[string]*qdrant.Value {
	payload := make(map[string]*qdrant.Value, len(chunk.Metadata)+1)
	payload["page_content"] = &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: chunk.PageContent}}

	for key, value := range chunk.Metadata {
		if qValue := convertToQdrantValue(value); qValue != nil {
			payload[key] = qValue
		}
	}
	return payload
}

func convertToQdrantValue(value any) *qdrant.Value {
	switch v := value.(type) {
	case string:
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: v}}
	case int:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(v)}}
	case int32:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(v)}}
	case int64:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: v}}
	case float32:
		return &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: float64(v)}}
	case float64:
		return &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: v}}
	case bool:
		return &qdrant.Value{Kind: &qdrant.Value_BoolValue{BoolValue: v}}
	case []string:
		values := make([]*qdrant.Value, len(v))
		for i, str := range v {
			values[i] = &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: str}}
		}
		return &qdrant.Value{Kind: &qdrant.Value_ListValue{
			ListValue: &qdrant.ListValue{Values: values},
		}}
	case nil:
		return &qdrant.Value{Kind: &qdrant.Value_NullValue{}}
	default:
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: fmt.Sprintf("%v", v)}}
	}
}

func (s *Store) payloadToChunk(payload map[string]*qdrant.Value) schema.Chunk {
	chunk := schema.Chunk{
		Metadata: make(map[string]any),
	}

	for key, value := range payload {
		if key == "page_content" {
			chunk.PageContent = value.GetStringValue()
			continue
		}
		if converted := convertFromQdrantValue(value); converted != nil {
			chunk.Metadata[key] = converted
		}
	}
	return chunk
}

func convertFromQdrantValue(value *qdrant.Value) any {
	switch v := value.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return v.StringValue
	case *qdrant.Value_IntegerValue:
		return v.IntegerValue
	case *qdrant.Value_DoubleValue:
		return v.DoubleValue
	case *qdrant.Value_BoolValue:
		return v.BoolValue
	case *qdrant.Value_ListValue:
		list := make([]any, len(v.ListValue.GetValues()))
		for i, val := range v.ListValue.GetValues() {
			list[i] = convertFromQdrantValue(val)
		}
		return list
	case *qdrant.Value_NullValue:
		return nil
	default:
		return nil
	}
}

func buildQdrantFilter(filters map[string]any) *qdrant.Filter {
	if len(filters) == 0 {
		return nil
	}

	conditions := make([]*qdrant.Condition, 0, len(filters))
	for key, value := range filters {
		var match *qdrant.Match

		switch v := value.(type) {
		case string:
			match = &qdrant.Match{MatchValue: &qdrant.Match_Keyword{Keyword: v}}
		case int:
			match = &qdrant.Match{MatchValue: &qdrant.Match_Integer{Integer: int64(v)}}
		case int64:
			match = &qdrant.Match{MatchValue: &qdrant.Match_Integer{Integer: v}}
		case bool:
			match = &qdrant.Match{MatchValue: &qdrant.Match_Boolean{Boolean: v}}
		case []string:
			match = &qdrant.Match{MatchValue: &qdrant.Match_Keywords{Keywords: &qdrant.RepeatedStrings{Strings: v}}}
		default:
			slog.Warn("Unsupported filter type for key", "key", key, "type", fmt.Sprintf("%T", v))
			continue
		}

		conditions = append(conditions, &qdrant.Condition{
			ConditionOneOf: &qdrant.Condition_Field{
				Field: &qdrant.FieldCondition{
					Key:   key,
					Match: match,
				},
			},
		})
	}

	if len(conditions) == 0 {
		return nil
	}
	return &qdrant.Filter{
		Must: conditions,
	}
}

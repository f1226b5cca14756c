package embeddings_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/lernkit/embeddings"
	"github.com/sevigo/lernkit/embeddings/fake"
)

func TestBatcher(t *testing.T) {
	ctx := context.Background()

	t.Run("embeds documents across batches", func(t *testing.T) {
		client := fake.NewFakeEmbedder(4)
		batcher, err := embeddings.NewBatcher(client, embeddings.WithBatchSize(2))
		require.NoError(t, err)

		texts := []string{"eins", "zwei", "drei", "vier", "fuenf"}
		vectors, err := batcher.EmbedDocuments(ctx, texts)
		require.NoError(t, err)
		require.Len(t, vectors, len(texts))
		for _, v := range vectors {
			assert.Len(t, v, 4)
		}
		assert.Equal(t, 3, client.CallCount, "five texts at batch size two means three batches")
	})

	t.Run("preserves document order", func(t *testing.T) {
		client := fake.NewFakeEmbedder(4)
		batcher, err := embeddings.NewBatcher(client, embeddings.WithBatchSize(1))
		require.NoError(t, err)

		texts := []string{"alpha", "beta", "gamma"}
		batched, err := batcher.EmbedDocuments(ctx, texts)
		require.NoError(t, err)

		for i, text := range texts {
			single, err := client.EmbedQuery(ctx, text)
			require.NoError(t, err)
			assert.Equal(t, single, batched[i], "vector %d should match a direct embedding", i)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		batcher, err := embeddings.NewBatcher(fake.NewFakeEmbedder(4))
		require.NoError(t, err)

		vectors, err := batcher.EmbedDocuments(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, vectors)
	})

	t.Run("empty query is rejected", func(t *testing.T) {
		batcher, err := embeddings.NewBatcher(fake.NewFakeEmbedder(4))
		require.NoError(t, err)

		_, err = batcher.EmbedQuery(ctx, "   ")
		assert.ErrorIs(t, err, embeddings.ErrEmptyText)
	})

	t.Run("provider errors propagate", func(t *testing.T) {
		client := fake.NewFakeEmbedder(4)
		client.Err = errors.New("backend down")
		batcher, err := embeddings.NewBatcher(client)
		require.NoError(t, err)

		_, err = batcher.EmbedDocuments(ctx, []string{"text"})
		assert.ErrorContains(t, err, "backend down")
	})

	t.Run("cannot wrap a batcher", func(t *testing.T) {
		inner, err := embeddings.NewBatcher(fake.NewFakeEmbedder(4))
		require.NoError(t, err)

		_, err = embeddings.NewBatcher(inner)
		assert.Error(t, err)
	})
}

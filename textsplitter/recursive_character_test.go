package textsplitter_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/lernkit/schema"
	"github.com/sevigo/lernkit/textsplitter"
)

func TestRecursiveCharacter_SplitText(t *testing.T) {
	ctx := context.Background()

	t.Run("short text stays whole", func(t *testing.T) {
		splitter := textsplitter.NewRecursiveCharacter()
		chunks, err := splitter.SplitText(ctx, "Ein kurzer Text.")
		require.NoError(t, err)
		assert.Equal(t, []string{"Ein kurzer Text."}, chunks)
	})

	t.Run("splits on paragraph boundaries first", func(t *testing.T) {
		splitter := textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(30),
			textsplitter.WithChunkOverlap(0),
		)

		text := "Erster Absatz hier.\n\nZweiter Absatz hier.\n\nDritter Absatz hier."
		chunks, err := splitter.SplitText(ctx, text)
		require.NoError(t, err)

		require.Greater(t, len(chunks), 1)
		for _, chunk := range chunks {
			assert.LessOrEqual(t, len(chunk), 30)
			assert.NotContains(t, chunk, "\n\n", "paragraphs should not be split mid-boundary")
		}
	})

	t.Run("oversized word survives", func(t *testing.T) {
		splitter := textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(10),
			textsplitter.WithChunkOverlap(0),
		)

		word := strings.Repeat("a", 25)
		chunks, err := splitter.SplitText(ctx, word)
		require.NoError(t, err)
		assert.Equal(t, word, strings.Join(chunks, ""))
	})
}

func TestRecursiveCharacter_SplitChunks(t *testing.T) {
	ctx := context.Background()

	t.Run("metadata is carried over", func(t *testing.T) {
		splitter := textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(20),
			textsplitter.WithChunkOverlap(0),
		)

		input := []schema.Chunk{
			schema.NewChunk("Absatz eins.\n\nAbsatz zwei.\n\nAbsatz drei.", map[string]any{"source": "lesson.md"}),
		}

		chunks, err := splitter.SplitChunks(ctx, input)
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)

		for i, chunk := range chunks {
			assert.Equal(t, "lesson.md", chunk.Metadata["source"])
			assert.Equal(t, i, chunk.Metadata["chunk_index"])
		}
	})

	t.Run("empty input", func(t *testing.T) {
		splitter := textsplitter.NewRecursiveCharacter()
		chunks, err := splitter.SplitChunks(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})
}

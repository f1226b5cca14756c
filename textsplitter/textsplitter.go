// Package textsplitter splits source material into chunks small enough
// for embedding and retrieval.
package textsplitter

import (
	"context"

	"github.com/sevigo/lernkit/schema"
)

type TextSplitter interface {
	SplitChunks(ctx context.Context, chunks []schema.Chunk) ([]schema.Chunk, error)
}

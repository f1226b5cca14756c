package schema

import "context"

// Chunk is a piece of source material (a split of an uploaded textbook
// chapter or transcript) together with its provenance metadata.
type Chunk struct {
	PageContent string
	Metadata    map[string]any
}

func (c Chunk) String() string {
	return c.PageContent
}

func NewChunk(content string, metadata map[string]any) Chunk {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return Chunk{
		PageContent: content,
		Metadata:    metadata,
	}
}

type Retriever interface {
	GetRelevantChunks(ctx context.Context, query string) ([]Chunk, error)
}

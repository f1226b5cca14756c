package documentloaders

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/sevigo/lernkit/schema"
)

// TextLoader loads plain text and markdown files. Content is normalized
// to NFC so that umlauts survive copy-paste from macOS sources.
type TextLoader struct {
	path string
}

func NewTextLoader(path string) *TextLoader {
	return &TextLoader{path: path}
}

func (l *TextLoader) Load(ctx context.Context) ([]schema.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read text file: %w", err)
	}

	content := strings.TrimSpace(norm.NFC.String(string(data)))
	if content == "" {
		return nil, nil
	}

	chunk := schema.NewChunk(content, map[string]any{"source": l.path})
	return []schema.Chunk{chunk}, nil
}

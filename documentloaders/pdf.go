package documentloaders

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/sevigo/lernkit/schema"
)

// PDFLoader extracts text from a PDF file, one chunk per page.
type PDFLoader struct {
	path string
}

func NewPDFLoader(path string) *PDFLoader {
	return &PDFLoader{path: path}
}

func (l *PDFLoader) Load(ctx context.Context) ([]schema.Chunk, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open PDF file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat PDF file: %w", err)
	}

	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("create PDF reader: %w", err)
	}

	numPages := reader.NumPage()
	chunks := make([]schema.Chunk, 0, numPages)

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text := extractPageText(page)
		if text == "" {
			continue
		}

		chunks = append(chunks, schema.NewChunk(text, map[string]any{
			"source": l.path,
			"page":   i,
		}))
	}

	if len(chunks) == 0 {
		return nil, errors.New("no text extracted from PDF")
	}
	return chunks, nil
}

func extractPageText(page pdf.Page) string {
	if content, err := page.GetPlainText(nil); err == nil && strings.TrimSpace(content) != "" {
		return strings.TrimSpace(content)
	}

	// Fallback for pages where the font map defeats GetPlainText.
	var sb strings.Builder
	for _, token := range page.Content().Text {
		sb.WriteString(token.S)
	}
	return strings.TrimSpace(sb.String())
}

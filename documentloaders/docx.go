package documentloaders

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sevigo/lernkit/schema"
)

// DocxLoader extracts the plain text from a DOCX file by scanning the
// main document part for text runs.
type DocxLoader struct {
	path string
}

func NewDocxLoader(path string) *DocxLoader {
	return &DocxLoader{path: path}
}

func (l *DocxLoader) Load(ctx context.Context) ([]schema.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	zr, err := zip.OpenReader(l.path)
	if err != nil {
		return nil, fmt.Errorf("open DOCX archive: %w", err)
	}
	defer zr.Close()

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, errors.New("DOCX archive has no word/document.xml")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open document part: %w", err)
	}
	defer rc.Close()

	text, err := extractDocxText(rc)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	chunk := schema.NewChunk(text, map[string]any{"source": l.path})
	return []schema.Chunk{chunk}, nil
}

// extractDocxText walks the XML token stream, collecting w:t text and
// inserting a newline at each paragraph end.
func extractDocxText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var sb strings.Builder
	var inText bool

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document part: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return strings.TrimSpace(sb.String()), nil
}

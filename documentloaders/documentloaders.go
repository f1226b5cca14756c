// Package documentloaders loads source material for lesson generation
// from local files into a consistent chunk format.
package documentloaders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/sevigo/lernkit/schema"
)

// Loader defines the interface for loading source material.
type Loader interface {
	Load(ctx context.Context) ([]schema.Chunk, error)
}

var ErrUnsupportedFormat = errors.New("documentloaders: unsupported file format")

// FileLoader dispatches to a format-specific loader based on the file
// extension.
type FileLoader struct {
	path   string
	logger *slog.Logger
}

type FileLoaderOption func(*FileLoader)

// WithLogger sets a custom logger for the FileLoader.
func WithLogger(logger *slog.Logger) FileLoaderOption {
	return func(l *FileLoader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewFileLoader(path string, opts ...FileLoaderOption) *FileLoader {
	loader := &FileLoader{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(loader)
	}
	loader.logger = loader.logger.With("component", "file_loader")
	return loader
}

func (l *FileLoader) Load(ctx context.Context) ([]schema.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(l.path))
	l.logger.Debug("Loading file", "path", l.path, "ext", ext)

	switch ext {
	case ".txt", ".md", ".markdown":
		return NewTextLoader(l.path).Load(ctx)
	case ".pdf":
		return NewPDFLoader(l.path).Load(ctx)
	case ".docx":
		return NewDocxLoader(l.path).Load(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

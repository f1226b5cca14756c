// Package lernkit ties the toolkit together: structured lesson documents
// rendered to markdown, and lesson markdown converted back into printable
// worksheets.
package lernkit

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sevigo/lernkit/chains"
	"github.com/sevigo/lernkit/dialect"
	"github.com/sevigo/lernkit/llms"
	"github.com/sevigo/lernkit/preview"
	"github.com/sevigo/lernkit/printdoc"
	"github.com/sevigo/lernkit/schema"
)

// Toolkit bundles the generator, parser and printer behind one façade.
type Toolkit struct {
	generator dialect.Generator
	printer   *printdoc.Printer
	logger    *slog.Logger
}

type Option func(*Toolkit)

// WithLogger sets a custom logger for all toolkit components.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Toolkit) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithGenerator replaces the default markdown generator.
func WithGenerator(g dialect.Generator) Option {
	return func(t *Toolkit) {
		t.generator = g
	}
}

func New(opts ...Option) *Toolkit {
	t := &Toolkit{
		generator: dialect.NewGenerator(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.printer = printdoc.NewPrinter(printdoc.WithLogger(t.logger))
	t.logger = t.logger.With("component", "lernkit")
	return t
}

// RenderMarkdown turns a lesson document into dialect markdown.
func (t *Toolkit) RenderMarkdown(doc *schema.Document) (string, error) {
	return t.generator.Render(*doc)
}

// WriteLessonMarkdown renders the document and writes it to path.
func (t *Toolkit) WriteLessonMarkdown(doc *schema.Document, path string) error {
	markdown, err := t.generator.Render(*doc)
	if err != nil {
		return fmt.Errorf("render lesson markdown: %w", err)
	}
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("write lesson markdown: %w", err)
	}
	t.logger.Info("Lesson markdown written", "path", path, "sections", len(doc.Sections))
	return nil
}

// GenerateLesson runs the lesson chain for topic and writes the rendered
// markdown to path.
func (t *Toolkit) GenerateLesson(ctx context.Context, chain chains.LessonChain, topic, path string, options ...llms.CallOption) (*schema.Document, error) {
	doc, err := chain.Call(ctx, topic, options...)
	if err != nil {
		return nil, fmt.Errorf("generate lesson: %w", err)
	}
	if err := t.WriteLessonMarkdown(doc, path); err != nil {
		return nil, err
	}
	return doc, nil
}

// ConvertMarkdownToWorksheet parses a lesson markdown file and writes a
// printable DOCX worksheet next to it.
func (t *Toolkit) ConvertMarkdownToWorksheet(markdownPath, docxPath string) error {
	data, err := os.ReadFile(markdownPath)
	if err != nil {
		return fmt.Errorf("read lesson markdown: %w", err)
	}

	elements := dialect.Parse(string(data))
	if err := t.printer.WriteFile(docxPath, elements); err != nil {
		return fmt.Errorf("write worksheet: %w", err)
	}

	t.logger.Info("Worksheet written", "source", markdownPath, "target", docxPath, "elements", len(elements))
	return nil
}

// WritePreview renders the document to markdown and writes an HTML
// preview page to path.
func (t *Toolkit) WritePreview(doc *schema.Document, path string) error {
	markdown, err := t.generator.Render(*doc)
	if err != nil {
		return fmt.Errorf("render lesson markdown: %w", err)
	}

	renderer := preview.NewRenderer(
		preview.WithLogger(t.logger),
		preview.WithTitle(doc.Title),
	)
	return renderer.WriteFile(path, markdown)
}

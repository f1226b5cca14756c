// Package preview renders lesson markdown into a standalone HTML page
// for a quick visual check in the browser before printing or publishing.
package preview

import (
	"bytes"
	"fmt"
	"html"
	"log/slog"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.6; }
blockquote { border-left: 4px solid #888; background: #f4f4f4; margin: 1rem 0; padding: 0.5rem 1rem; }
blockquote blockquote { border-left-color: #bbb; background: #fafafa; }
iframe { max-width: 100%%; }
</style>
</head>
<body>
%s</body>
</html>
`

type Renderer struct {
	logger   *slog.Logger
	title    string
	markdown goldmark.Markdown
}

type Option func(*Renderer)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// WithTitle sets the HTML page title.
func WithTitle(title string) Option {
	return func(r *Renderer) {
		r.title = title
	}
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		logger: slog.Default(),
		title:  "Vorschau",
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "preview")
	r.markdown = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Table,
			extension.Strikethrough,
			extension.Linkify,
			extension.TaskList,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		// The dialect embeds iframe and audio tags directly.
		goldmark.WithRendererOptions(
			goldmarkhtml.WithUnsafe(),
		),
	)
	return r
}

// RenderHTML converts lesson markdown into a complete HTML page.
func (r *Renderer) RenderHTML(markdown string) ([]byte, error) {
	var body bytes.Buffer
	if err := r.markdown.Convert([]byte(stripCalloutMarkers(markdown)), &body); err != nil {
		return nil, fmt.Errorf("preview: convert markdown: %w", err)
	}
	page := fmt.Sprintf(pageTemplate, html.EscapeString(r.title), body.String())
	r.logger.Debug("preview rendered", "bytes", len(page))
	return []byte(page), nil
}

// WriteFile renders the markdown and writes the page to path.
func (r *Renderer) WriteFile(path, markdown string) error {
	page, err := r.RenderHTML(markdown)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, page, 0o644); err != nil {
		return fmt.Errorf("preview: write file: %w", err)
	}
	r.logger.Info("preview written", "path", path)
	return nil
}

// stripCalloutMarkers turns Obsidian-style callout headers into bold
// blockquote titles so standard markdown renderers display them sensibly.
func stripCalloutMarkers(markdown string) string {
	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, "> ")
		if !strings.HasPrefix(trimmed, "[!") {
			continue
		}
		end := strings.Index(trimmed, "]")
		if end < 0 {
			continue
		}
		title := strings.TrimSpace(trimmed[end+1:])
		prefix := line[:len(line)-len(trimmed)]
		if title == "" {
			lines[i] = strings.TrimRight(prefix, " ")
			continue
		}
		lines[i] = prefix + "**" + title + "**"
	}
	return strings.Join(lines, "\n")
}

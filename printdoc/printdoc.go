// Package printdoc renders parsed worksheet elements into a printable
// DOCX document. The archive is built fully in memory with fixed entry
// order and zeroed timestamps, so the same input always produces the
// same bytes.
package printdoc

import (
	"archive/zip"
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sevigo/lernkit/dialect"
)

const answerRows = 4

type Printer struct {
	logger *slog.Logger
}

type Option func(*Printer)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Printer) {
		p.logger = logger
	}
}

func NewPrinter(opts ...Option) *Printer {
	p := &Printer{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "printdoc")
	return p
}

// Render converts the elements into a complete DOCX archive.
func (p *Printer) Render(elements []dialect.Element) ([]byte, error) {
	var body strings.Builder
	for _, el := range elements {
		switch e := el.(type) {
		case dialect.Heading:
			writeHeading(&body, e.Level, e.Text)
		case dialect.Box:
			writeShadedBox(&body, e.Title, e.Lines)
		case dialect.QuestionList:
			writeHeading(&body, 3, "Fragen zum Beantworten")
			for i, q := range e.Questions {
				writeBoldParagraph(&body, fmt.Sprintf("%d. %s", i+1, cleanPrintLine(q)))
				writeAnswerLines(&body, answerRows)
			}
		case dialect.AudioRef:
			writeParagraph(&body, "Zugehöriger Radiobeitrag: "+e.URL)
		case dialect.Paragraph:
			writeParagraph(&body, cleanPrintLine(e.Text))
		}
	}

	document := documentHeader + body.String() + documentFooter

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
		{"word/document.xml", document},
	}
	for _, part := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   part.name,
			Method: zip.Deflate,
		})
		if err != nil {
			return nil, fmt.Errorf("printdoc: create %s: %w", part.name, err)
		}
		if _, err := w.Write([]byte(part.data)); err != nil {
			return nil, fmt.Errorf("printdoc: write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("printdoc: close archive: %w", err)
	}

	p.logger.Debug("document rendered", "elements", len(elements), "bytes", buf.Len())
	return buf.Bytes(), nil
}

// WriteFile renders the elements and writes the archive to path.
func (p *Printer) WriteFile(path string, elements []dialect.Element) error {
	data, err := p.Render(elements)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("printdoc: write file: %w", err)
	}
	p.logger.Info("document written", "path", path)
	return nil
}

// Render converts elements with a default printer.
func Render(elements []dialect.Element) ([]byte, error) {
	return NewPrinter().Render(elements)
}

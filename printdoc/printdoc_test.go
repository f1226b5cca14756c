package printdoc_test

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/lernkit/dialect"
	"github.com/sevigo/lernkit/printdoc"
)

func readPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(content)
	}
	t.Fatalf("part %q not found in archive", name)
	return ""
}

func TestRenderArchiveParts(t *testing.T) {
	data, err := printdoc.Render([]dialect.Element{
		dialect.Heading{Level: 1, Text: "Lehrmittel"},
	})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/_rels/document.xml.rels",
		"word/styles.xml",
		"word/document.xml",
	}, names)
}

func TestRenderElements(t *testing.T) {
	t.Run("heading uses paragraph style", func(t *testing.T) {
		data, err := printdoc.Render([]dialect.Element{
			dialect.Heading{Level: 2, Text: "Sozialversicherungen"},
		})
		require.NoError(t, err)

		doc := readPart(t, data, "word/document.xml")
		assert.Contains(t, doc, `<w:pStyle w:val="Heading2"/>`)
		assert.Contains(t, doc, ">Sozialversicherungen</w:t>")
	})

	t.Run("heading level is capped at four", func(t *testing.T) {
		data, err := printdoc.Render([]dialect.Element{
			dialect.Heading{Level: 6, Text: "Detail"},
		})
		require.NoError(t, err)

		doc := readPart(t, data, "word/document.xml")
		assert.Contains(t, doc, `<w:pStyle w:val="Heading4"/>`)
	})

	t.Run("box becomes shaded table", func(t *testing.T) {
		data, err := printdoc.Render([]dialect.Element{
			dialect.Box{Title: "Worum geht es?", Lines: []string{"- **AHV** und [[IV]]"}},
		})
		require.NoError(t, err)

		doc := readPart(t, data, "word/document.xml")
		assert.Contains(t, doc, `<w:shd w:val="clear" w:color="auto" w:fill="EAEAEA"/>`)
		assert.Contains(t, doc, ">Worum geht es?</w:t>")
		assert.Contains(t, doc, ">AHV und IV</w:t>")
	})

	t.Run("question list gets heading and answer lines", func(t *testing.T) {
		data, err := printdoc.Render([]dialect.Element{
			dialect.QuestionList{Questions: []string{"Was ist die AHV?", "Wer zahlt?"}},
		})
		require.NoError(t, err)

		doc := readPart(t, data, "word/document.xml")
		assert.Contains(t, doc, ">Fragen zum Beantworten</w:t>")
		assert.Contains(t, doc, ">1. Was ist die AHV?</w:t>")
		assert.Contains(t, doc, ">2. Wer zahlt?</w:t>")
		assert.Equal(t, 8, bytes.Count([]byte(doc), []byte(`<w:pBdr>`)))
	})

	t.Run("audio reference gets label", func(t *testing.T) {
		data, err := printdoc.Render([]dialect.Element{
			dialect.AudioRef{URL: "https://example.com/beitrag.mp3"},
		})
		require.NoError(t, err)

		doc := readPart(t, data, "word/document.xml")
		assert.Contains(t, doc, ">Zugehöriger Radiobeitrag: https://example.com/beitrag.mp3</w:t>")
	})

	t.Run("paragraph text is escaped", func(t *testing.T) {
		data, err := printdoc.Render([]dialect.Element{
			dialect.Paragraph{Text: "Bund & Kantone <2026>"},
		})
		require.NoError(t, err)

		doc := readPart(t, data, "word/document.xml")
		assert.Contains(t, doc, ">Bund &amp; Kantone &lt;2026&gt;</w:t>")
	})
}

func TestRenderDeterministic(t *testing.T) {
	elements := []dialect.Element{
		dialect.Heading{Level: 1, Text: "Migration"},
		dialect.Box{Title: "Info", Lines: []string{"Eine Zeile"}},
		dialect.QuestionList{Questions: []string{"Frage?"}},
	}

	first, err := printdoc.Render(elements)
	require.NoError(t, err)
	second, err := printdoc.Render(elements)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderEmptyInput(t *testing.T) {
	data, err := printdoc.Render(nil)
	require.NoError(t, err)

	doc := readPart(t, data, "word/document.xml")
	assert.Contains(t, doc, "<w:body>")
	assert.Contains(t, doc, "<w:sectPr>")
}

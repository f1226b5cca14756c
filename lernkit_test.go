package lernkit_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lernkit "github.com/sevigo/lernkit"
	"github.com/sevigo/lernkit/chains"
	"github.com/sevigo/lernkit/documentloaders"
	fakellm "github.com/sevigo/lernkit/llms/fake"
	"github.com/sevigo/lernkit/schema"
	fakeretriever "github.com/sevigo/lernkit/schema/fake"
)

func sampleLesson() *schema.Document {
	return &schema.Document{
		Frontmatter: &schema.Frontmatter{
			Topic:   []string{"Sozialversicherungen"},
			Chapter: []string{"AHV"},
			Type:    "Radiobeitrag",
			Source:  "SRF",
			Summary: "Die AHV im Ueberblick.",
		},
		Title: "Die AHV",
		Sections: []schema.Section{
			schema.InfoSection{
				Title:   "Worum geht es?",
				Content: "Die AHV ist die staatliche Altersvorsorge der Schweiz.",
			},
			schema.KeywordsSection{
				Title: "Schlüsselbegriffe",
				Items: []string{"[[AHV]]", "[[Rente]]"},
			},
			schema.IframeQuestionSection{
				Title: "Fragen zum Nachdenken",
				Iframe: &schema.IframeDetails{
					AssignmentID: "ahv-01",
					SubIDs:       "intro",
					Height:       "900",
					Questions:    []string{"Was ist die AHV?", "Wer zahlt Beiträge?"},
				},
			},
		},
	}
}

func TestToolkitRoundTrip(t *testing.T) {
	dir := t.TempDir()
	kit := lernkit.New()

	mdPath := filepath.Join(dir, "lesson.md")
	require.NoError(t, kit.WriteLessonMarkdown(sampleLesson(), mdPath))

	content, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	markdown := string(content)
	assert.Contains(t, markdown, "# Die AHV")
	assert.Contains(t, markdown, ">[!info] Worum geht es?")
	assert.Contains(t, markdown, "assignmentId=ahv-01")

	docxPath := filepath.Join(dir, "worksheet.docx")
	require.NoError(t, kit.ConvertMarkdownToWorksheet(mdPath, docxPath))

	// Read the worksheet back through the loader to close the loop.
	chunks, err := documentloaders.NewFileLoader(docxPath).Load(t.Context())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].PageContent, "Die AHV")
	assert.Contains(t, chunks[0].PageContent, "Fragen zum Beantworten")
	assert.Contains(t, chunks[0].PageContent, "Was ist die AHV?")
}

func TestToolkitWritePreview(t *testing.T) {
	dir := t.TempDir()
	kit := lernkit.New()

	htmlPath := filepath.Join(dir, "preview.html")
	require.NoError(t, kit.WritePreview(sampleLesson(), htmlPath))

	content, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	html := string(content)
	assert.Contains(t, html, "<title>Die AHV</title>")
	assert.Contains(t, html, "Worum geht es?")
}

func TestToolkitGenerateLesson(t *testing.T) {
	t.Parallel()

	lessonJSON := `{
		"frontmatter": {"topic": ["AHV"], "chapter": [], "type": "Radiobeitrag", "source": "SRF", "summary": "Kurz."},
		"title": "Die AHV",
		"sections": [
			{"type": "info", "title": "Worum geht es?", "content": "Die AHV sichert das Alter."}
		]
	}`

	retriever := fakeretriever.NewRetriever()
	retriever.ChunksToReturn = []schema.Chunk{schema.NewChunk("Die AHV wurde 1948 eingeführt.", nil)}
	chain, err := chains.NewLessonChain(retriever, fakellm.NewFakeLLM([]string{lessonJSON}))
	require.NoError(t, err)

	kit := lernkit.New()
	mdPath := filepath.Join(t.TempDir(), "lesson.md")
	doc, err := kit.GenerateLesson(t.Context(), chain, "AHV", mdPath)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Die AHV", doc.Title)

	data, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Die AHV")
	assert.Contains(t, string(data), ">[!info] Worum geht es?")
}

func TestToolkitMissingMarkdownFile(t *testing.T) {
	kit := lernkit.New()
	err := kit.ConvertMarkdownToWorksheet("/does/not/exist.md", filepath.Join(t.TempDir(), "out.docx"))
	assert.Error(t, err)
}

package chains_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/lernkit/chains"
	"github.com/sevigo/lernkit/llms/fake"
	"github.com/sevigo/lernkit/schema"
	fakeretriever "github.com/sevigo/lernkit/schema/fake"
)

const lessonJSON = `{
  "frontmatter": {
    "topic": ["Sozialversicherungen"],
    "chapter": ["AHV"],
    "type": "Radiobeitrag",
    "source": "SRF",
    "summary": "Die AHV im Ueberblick."
  },
  "title": "Die AHV",
  "sections": [
    {"type": "info", "title": "Worum geht es?", "content": "Die AHV ist die staatliche Altersvorsorge."},
    {"type": "keywords", "title": "Schlüsselbegriffe", "items": ["AHV", "Rente"]},
    {"type": "iframe_question", "title": "Fragen", "iframe_details": {
      "assignmentId": "ahv-01", "subIds": "intro", "height": "900",
      "questions": ["Was ist die AHV?", "Wer zahlt AHV-Beitraege?"]
    }}
  ]
}`

func TestLessonChain_Call(t *testing.T) {
	ctx := context.Background()

	t.Run("generates structured lesson from chunks", func(t *testing.T) {
		fakeLLM := fake.NewFakeLLM([]string{lessonJSON})
		fakeRetriever := fakeretriever.NewRetriever()
		fakeRetriever.ChunksToReturn = []schema.Chunk{
			{PageContent: "Die AHV ist die staatliche Altersvorsorge."},
			{PageContent: "Beitraege werden vom Lohn abgezogen."},
		}

		chain, err := chains.NewLessonChain(fakeRetriever, fakeLLM)
		require.NoError(t, err)

		doc, err := chain.Call(ctx, "Sozialversicherungen")
		require.NoError(t, err)

		assert.Equal(t, "Die AHV", doc.Title)
		require.Len(t, doc.Sections, 3)

		info, ok := doc.Sections[0].(schema.InfoSection)
		require.True(t, ok)
		assert.Equal(t, "Worum geht es?", info.Title)

		iframe, ok := doc.Sections[2].(schema.IframeQuestionSection)
		require.True(t, ok)
		require.NotNil(t, iframe.Iframe)
		assert.Equal(t, "ahv-01", iframe.Iframe.AssignmentID)

		lastPrompt, _ := fakeLLM.LastPrompt()
		assert.Contains(t, lastPrompt, "Die AHV ist die staatliche Altersvorsorge.")
		assert.Contains(t, lastPrompt, "Beitraege werden vom Lohn abgezogen.")
		assert.Contains(t, lastPrompt, "Sozialversicherungen")
	})

	t.Run("tolerates markdown fences around JSON", func(t *testing.T) {
		fenced := "```json\n" + lessonJSON + "\n```"
		fakeLLM := fake.NewFakeLLM([]string{fenced})
		fakeRetriever := fakeretriever.NewRetriever()

		chain, err := chains.NewLessonChain(fakeRetriever, fakeLLM)
		require.NoError(t, err)

		doc, err := chain.Call(ctx, "AHV")
		require.NoError(t, err)
		assert.Equal(t, "Die AHV", doc.Title)
	})

	t.Run("empty topic", func(t *testing.T) {
		chain, err := chains.NewLessonChain(fakeretriever.NewRetriever(), fake.NewFakeLLM([]string{"{}"}))
		require.NoError(t, err)

		_, err = chain.Call(ctx, "  ")
		assert.ErrorIs(t, err, chains.ErrEmptyTopic)
	})

	t.Run("error during retrieval", func(t *testing.T) {
		retrievalErr := errors.New("qdrant unavailable")
		fakeLLM := fake.NewFakeLLM([]string{lessonJSON})
		fakeRetriever := fakeretriever.NewRetriever()
		fakeRetriever.ErrToReturn = retrievalErr

		chain, err := chains.NewLessonChain(fakeRetriever, fakeLLM)
		require.NoError(t, err)

		_, err = chain.Call(ctx, "AHV")
		require.Error(t, err)
		assert.ErrorIs(t, err, retrievalErr)
		assert.Contains(t, err.Error(), "chunk retrieval failed")
		assert.Equal(t, 0, fakeLLM.GetCallCount(), "LLM should not have been called when retrieval fails")
	})

	t.Run("invalid model output", func(t *testing.T) {
		fakeLLM := fake.NewFakeLLM([]string{"Sorry, I cannot do that."})
		chain, err := chains.NewLessonChain(fakeretriever.NewRetriever(), fakeLLM)
		require.NoError(t, err)

		_, err = chain.Call(ctx, "AHV")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse lesson response")
	})

	t.Run("nil dependencies", func(t *testing.T) {
		_, err := chains.NewLessonChain(nil, fake.NewFakeLLM(nil))
		assert.Error(t, err)

		_, err = chains.NewLessonChain(fakeretriever.NewRetriever(), nil)
		assert.Error(t, err)
	})
}

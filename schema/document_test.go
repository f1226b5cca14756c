package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/lernkit/schema"
)

func TestDocumentJSONRoundTrip(t *testing.T) {
	doc := schema.Document{
		Frontmatter: &schema.Frontmatter{
			Topic:   []string{"Politik", "Recht"},
			Type:    "news",
			Source:  "ABUnews",
			Summary: "Ein Satz mit **Kernbegriffen**.",
		},
		Title: "ABUnews - Unruhen in den USA",
		Sections: []schema.Section{
			schema.InfoSection{
				Title:   "Worum geht es?",
				Content: "Zeile A\nZeile B",
				Nested: &schema.NestedBlock{
					Type:        "success",
					Title:       "Lernziele",
					ContentList: []string{"Ziel 1", "Ziel 2"},
				},
			},
			schema.KeywordsSection{Title: "Schlüsselbegriffe", Items: []string{"Recht", "Migration"}},
			schema.IframeQuestionSection{
				Title: "Wählen Sie eine Frage",
				Iframe: &schema.IframeDetails{
					AssignmentID: "A1",
					SubIDs:       "S1",
					Height:       "450px",
					Questions:    []string{"Frage 1?", "Frage 2?"},
				},
			},
			schema.AudioSection{
				Title:    "Radiobeitrag",
				AudioURL: "https://example.org/a.mp3",
			},
		},
		TeacherMaterial: &schema.TeacherMaterial{
			Title:        "LP-MATERIAL",
			WarningBlock: &schema.WarningBlock{Title: "Lösungsvorschläge", Content: "1. Antwort"},
		},
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded schema.Document
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, doc, decoded)
}

func TestDocumentUnmarshalFlatEnvelope(t *testing.T) {
	// The model emits one flat object per section with a type discriminator.
	raw := `{
		"title": "Testdokument",
		"sections": [
			{"type": "info", "title": "Worum geht es?", "content": "Text"},
			{"type": "general_education", "title": "Aspekte der Allgemeinbildung", "items": ["Ethik"]},
			{"type": "audio", "title": "Radiobeitrag", "audio_url": "https://h/a.mp3", "block_type": "hint"}
		]
	}`

	var doc schema.Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	require.Len(t, doc.Sections, 3)

	info, ok := doc.Sections[0].(schema.InfoSection)
	require.True(t, ok)
	assert.Equal(t, "Worum geht es?", info.Title)
	assert.Equal(t, "Text", info.Content)
	assert.Nil(t, info.Nested)

	ge, ok := doc.Sections[1].(schema.GeneralEducationSection)
	require.True(t, ok)
	assert.Equal(t, []string{"Ethik"}, ge.Items)

	audio, ok := doc.Sections[2].(schema.AudioSection)
	require.True(t, ok)
	assert.Equal(t, "https://h/a.mp3", audio.AudioURL)
}

func TestDocumentUnmarshalUnknownSectionType(t *testing.T) {
	raw := `{"title": "x", "sections": [{"type": "video", "title": "t"}]}`

	var doc schema.Document
	err := json.Unmarshal([]byte(raw), &doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrUnknownSectionType)
}

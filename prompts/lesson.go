package prompts

// DefaultLessonPrompt instructs a model to produce a complete lesson
// document as JSON matching schema.Document. The output is parsed
// directly, so the prompt pins the exact field names and section types.
var DefaultLessonPrompt = NewPromptTemplate(
	`You are an experienced teacher creating learning material for Swiss vocational
school students (Allgemeinbildung / ABU). Write in clear, simple German suitable
for apprentices aged 16 to 20.

Use ONLY the following source material:
---
{{.context}}
---

Create a complete lesson about: {{.topic}}

Respond with a single JSON object and nothing else. No markdown fences, no
commentary. The object has this shape:

{
  "frontmatter": {"topic": ["..."], "chapter": ["..."], "type": "Radiobeitrag", "source": "...", "summary": "..."},
  "title": "...",
  "sections": [...],
  "teacher_material": {"title": "...", "warning_block": {"title": "...", "content": "..."}}
}

Each entry in "sections" is an object with a "type" field and a "title" field.
Allowed types and their extra fields:

- "info": "content" (multi-line text), optional "nested_block"
  {"type": "...", "title": "...", "content_list": ["..."]}
- "keywords": "items" (list of key terms)
- "general_education": "items" (list of related ABU themes)
- "iframe_question": "iframe_details"
  {"assignmentId": "...", "subIds": "...", "height": "900", "questions": ["..."]}
- "audio": "block_type", "audio_url", "source_text", "source_url",
  optional "nested_quote_title" and "nested_quote_iframe_details"

Guidelines:
- Start with an "info" section titled "Worum geht es?" summarizing the topic.
- Include at least one "iframe_question" section with 3 to 5 open questions
  that students answer in their own words.
- Keep "keywords" to the 5 to 10 most important terms.
- Base every fact on the source material. Do not invent facts.`)

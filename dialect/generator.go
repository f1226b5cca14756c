// Package dialect owns the custom Markdown superset used by the target
// rendering environment: callout blocks, nested callouts, wiki links, iframe
// question widgets and audio embeds. It contains the generator (document to
// dialect text) and the best-effort parser (dialect text to printable
// elements). The dialect itself, not either program, is the shared contract.
package dialect

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/lernkit/schema"
	"github.com/sevigo/lernkit/textbox"
)

var ErrMissingTitle = errors.New("dialect: section title is required")

// TeacherSeparator marks the start of teacher-only material in the dialect.
const TeacherSeparator = "%-%-%-"

// Generator serializes a schema.Document into dialect text. It is pure: no
// I/O, deterministic output for identical input.
type Generator struct {
	urls textbox.Builder
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithURLBuilder sets the answer-widget URL builder.
func WithURLBuilder(b textbox.Builder) GeneratorOption {
	return func(g *Generator) {
		g.urls = b
	}
}

// NewGenerator creates a Generator using the default textbox base URL unless
// configured otherwise.
func NewGenerator(opts ...GeneratorOption) Generator {
	g := Generator{urls: textbox.NewBuilder()}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

// Render produces the dialect text for doc: top-level blocks joined by one
// blank line, lines inside a block joined by single newlines. A missing
// document or section title is a caller contract violation and fails fast;
// every other absent optional field just omits its fragment.
func (g Generator) Render(doc schema.Document) (string, error) {
	if strings.TrimSpace(doc.Title) == "" {
		return "", fmt.Errorf("%w: document", ErrMissingTitle)
	}

	blocks := make([]string, 0, len(doc.Sections)+3)

	if doc.Frontmatter != nil {
		fm, err := renderFrontmatter(*doc.Frontmatter)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, fm)
	}

	blocks = append(blocks, "# "+doc.Title)

	for i, section := range doc.Sections {
		if strings.TrimSpace(section.SectionTitle()) == "" {
			return "", fmt.Errorf("%w: section %d", ErrMissingTitle, i)
		}
		blocks = append(blocks, g.renderSection(section))
	}

	if tm := doc.TeacherMaterial; tm != nil && tm.WarningBlock != nil {
		blocks = append(blocks, TeacherSeparator)
		blocks = append(blocks, renderTeacherMaterial(*tm))
	}

	return strings.Join(blocks, "\n\n"), nil
}

func renderFrontmatter(fm schema.Frontmatter) (string, error) {
	data, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("dialect: frontmatter marshal failed: %w", err)
	}
	return "---\n" + string(data) + "---", nil
}

func (g Generator) renderSection(section schema.Section) string {
	switch s := section.(type) {
	case schema.InfoSection:
		return g.renderInfo(s)
	case schema.KeywordsSection:
		return renderLinkList(s.Title, s.Items)
	case schema.GeneralEducationSection:
		return renderLinkList(s.Title, s.Items)
	case schema.IframeQuestionSection:
		return g.renderIframeQuestion(s)
	case schema.AudioSection:
		return g.renderAudio(s)
	default:
		// The Section set is sealed; this arm is unreachable.
		return ""
	}
}

func (g Generator) renderInfo(s schema.InfoSection) string {
	lines := []string{">[!info] " + s.Title}
	if s.Content != "" {
		for _, line := range strings.Split(strings.TrimSpace(s.Content), "\n") {
			lines = append(lines, "> "+strings.TrimSpace(line))
		}
	}
	if n := s.Nested; n != nil {
		lines = append(lines, ">")
		lines = append(lines, fmt.Sprintf(">>[!%s] %s", n.Type, n.Title))
		for _, item := range n.ContentList {
			lines = append(lines, ">> - "+strings.TrimSpace(item))
		}
	}
	return strings.Join(lines, "\n")
}

// renderLinkList emits a keyword heading plus its items as wiki links.
// Bracket characters inside items are stripped first so a model that already
// emitted [[Term]] does not produce doubled brackets.
func renderLinkList(title string, items []string) string {
	lines := []string{"#### " + title}
	if len(items) > 0 {
		links := make([]string, len(items))
		for i, item := range items {
			cleaned := strings.NewReplacer("[", "", "]", "").Replace(item)
			links[i] = "[[" + strings.TrimSpace(cleaned) + "]]"
		}
		lines = append(lines, strings.Join(links, ", "))
	}
	return strings.Join(lines, "\n")
}

func (g Generator) renderIframeQuestion(s schema.IframeQuestionSection) string {
	lines := []string{">[!question] " + s.Title}
	if s.Iframe != nil {
		lines = append(lines, g.iframeTag(*s.Iframe))
	}
	return strings.Join(lines, "\n")
}

func (g Generator) renderAudio(s schema.AudioSection) string {
	blockType := orDefault(s.BlockType, "hint")
	sourceText := orDefault(s.SourceText, "Quelle")
	sourceURL := orDefault(s.SourceURL, "#")

	lines := []string{
		fmt.Sprintf(`>[!%s] %s ><audio controls><source src="%s"></audio>`, blockType, s.Title, s.AudioURL),
		fmt.Sprintf(">Quelle: [%s](%s)", sourceText, sourceURL),
	}

	if s.NestedQuoteTitle != "" && s.NestedQuoteIframe != nil {
		lines = append(lines, ">")
		lines = append(lines, ">>[!quote] "+s.NestedQuoteTitle)
		lines = append(lines, ">> "+g.iframeTag(*s.NestedQuoteIframe))
	}
	return strings.Join(lines, "\n")
}

func renderTeacherMaterial(tm schema.TeacherMaterial) string {
	wb := tm.WarningBlock
	lines := []string{
		"# " + tm.Title,
		">[!warning] " + wb.Title,
	}
	if wb.Content != "" {
		for _, line := range strings.Split(strings.TrimSpace(wb.Content), "\n") {
			lines = append(lines, "> "+strings.TrimSpace(line))
		}
	}
	return strings.Join(lines, "\n")
}

func (g Generator) iframeTag(d schema.IframeDetails) string {
	u := g.urls.BuildURL(d.AssignmentID, d.SubIDs, d.Questions)
	return fmt.Sprintf(`<iframe src="%s" style="border:0px #ffffff none;" name="myiFrame" scrolling="yes" frameborder="1" marginheight="0px" marginwidth="0px" height="%s" width="100%%" allowfullscreen></iframe>`,
		u, d.Height)
}

// orDefault treats the empty string and the literal placeholder "none"
// (case-insensitive) as unset.
func orDefault(value, fallback string) string {
	if value == "" || strings.EqualFold(value, "none") {
		return fallback
	}
	return value
}

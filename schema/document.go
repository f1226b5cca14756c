package schema

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownSectionType = errors.New("schema: unknown section type")

// Document is the root of a generated learning unit: an ordered sequence of
// typed sections, optionally preceded by frontmatter and followed by
// teacher-only material.
type Document struct {
	Frontmatter     *Frontmatter
	Title           string
	Sections        []Section
	TeacherMaterial *TeacherMaterial
}

// Frontmatter is the metadata header emitted before the document body.
type Frontmatter struct {
	Topic   []string `yaml:"topic" json:"topic"`
	Chapter []string `yaml:"chapter" json:"chapter"`
	Type    string   `yaml:"type" json:"type"`
	Source  string   `yaml:"source" json:"source"`
	Summary string   `yaml:"summary" json:"summary"`
}

// Section is a closed sum over the five section kinds. Implementations live
// in this package only; the unexported method seals the set so the dialect
// generator can switch exhaustively.
type Section interface {
	SectionTitle() string
	sectionKind() string
}

// InfoSection is a first-level info callout with free-form content and an
// optional nested second-level block.
type InfoSection struct {
	Title   string
	Content string
	Nested  *NestedBlock
}

func (s InfoSection) SectionTitle() string { return s.Title }
func (InfoSection) sectionKind() string    { return "info" }

// KeywordsSection renders as a heading followed by wiki-linked terms.
type KeywordsSection struct {
	Title string
	Items []string
}

func (s KeywordsSection) SectionTitle() string { return s.Title }
func (KeywordsSection) sectionKind() string    { return "keywords" }

// GeneralEducationSection lists the related "Aspekte der Allgemeinbildung"
// as wiki links, same shape as KeywordsSection.
type GeneralEducationSection struct {
	Title string
	Items []string
}

func (s GeneralEducationSection) SectionTitle() string { return s.Title }
func (GeneralEducationSection) sectionKind() string    { return "general_education" }

// IframeQuestionSection embeds the interactive answer-collection widget.
type IframeQuestionSection struct {
	Title  string
	Iframe *IframeDetails
}

func (s IframeQuestionSection) SectionTitle() string { return s.Title }
func (IframeQuestionSection) sectionKind() string    { return "iframe_question" }

// AudioSection embeds an audio player with a source attribution and an
// optional nested quote block carrying its own question widget.
type AudioSection struct {
	Title             string
	BlockType         string
	AudioURL          string
	SourceText        string
	SourceURL         string
	NestedQuoteTitle  string
	NestedQuoteIframe *IframeDetails
}

func (s AudioSection) SectionTitle() string { return s.Title }
func (AudioSection) sectionKind() string    { return "audio" }

// NestedBlock is a second-level callout inside an info section.
type NestedBlock struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	ContentList []string `json:"content_list"`
}

// IframeDetails carries everything needed to build the question widget URL.
// Question order is meaningful: index i becomes query parameter question{i+1}.
type IframeDetails struct {
	AssignmentID string   `json:"assignmentId"`
	SubIDs       string   `json:"subIds"`
	Height       string   `json:"height"`
	Questions    []string `json:"questions"`
}

type WarningBlock struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type TeacherMaterial struct {
	Title        string        `json:"title"`
	WarningBlock *WarningBlock `json:"warning_block,omitempty"`
}

// sectionEnvelope is the flat wire shape produced by the model: one struct
// with a type discriminator and every variant field optional. It exists only
// at the JSON boundary; decoding narrows it to the right Section variant.
type sectionEnvelope struct {
	Type                     string         `json:"type"`
	Title                    string         `json:"title"`
	Content                  string         `json:"content,omitempty"`
	NestedBlock              *NestedBlock   `json:"nested_block,omitempty"`
	Items                    []string       `json:"items,omitempty"`
	IframeDetails            *IframeDetails `json:"iframe_details,omitempty"`
	BlockType                string         `json:"block_type,omitempty"`
	AudioURL                 string         `json:"audio_url,omitempty"`
	SourceText               string         `json:"source_text,omitempty"`
	SourceURL                string         `json:"source_url,omitempty"`
	NestedQuoteTitle         string         `json:"nested_quote_title,omitempty"`
	NestedQuoteIframeDetails *IframeDetails `json:"nested_quote_iframe_details,omitempty"`
}

func (e sectionEnvelope) toSection() (Section, error) {
	switch e.Type {
	case "info":
		return InfoSection{Title: e.Title, Content: e.Content, Nested: e.NestedBlock}, nil
	case "keywords":
		return KeywordsSection{Title: e.Title, Items: e.Items}, nil
	case "general_education":
		return GeneralEducationSection{Title: e.Title, Items: e.Items}, nil
	case "iframe_question":
		return IframeQuestionSection{Title: e.Title, Iframe: e.IframeDetails}, nil
	case "audio":
		return AudioSection{
			Title:             e.Title,
			BlockType:         e.BlockType,
			AudioURL:          e.AudioURL,
			SourceText:        e.SourceText,
			SourceURL:         e.SourceURL,
			NestedQuoteTitle:  e.NestedQuoteTitle,
			NestedQuoteIframe: e.NestedQuoteIframeDetails,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSectionType, e.Type)
	}
}

func envelopeFor(s Section) sectionEnvelope {
	e := sectionEnvelope{Type: s.sectionKind(), Title: s.SectionTitle()}
	switch v := s.(type) {
	case InfoSection:
		e.Content = v.Content
		e.NestedBlock = v.Nested
	case KeywordsSection:
		e.Items = v.Items
	case GeneralEducationSection:
		e.Items = v.Items
	case IframeQuestionSection:
		e.IframeDetails = v.Iframe
	case AudioSection:
		e.BlockType = v.BlockType
		e.AudioURL = v.AudioURL
		e.SourceText = v.SourceText
		e.SourceURL = v.SourceURL
		e.NestedQuoteTitle = v.NestedQuoteTitle
		e.NestedQuoteIframeDetails = v.NestedQuoteIframe
	}
	return e
}

type documentEnvelope struct {
	Frontmatter     *Frontmatter      `json:"frontmatter,omitempty"`
	Title           string            `json:"title"`
	Sections        []sectionEnvelope `json:"sections"`
	TeacherMaterial *TeacherMaterial  `json:"teacher_material,omitempty"`
}

func (d Document) MarshalJSON() ([]byte, error) {
	env := documentEnvelope{
		Frontmatter:     d.Frontmatter,
		Title:           d.Title,
		Sections:        make([]sectionEnvelope, len(d.Sections)),
		TeacherMaterial: d.TeacherMaterial,
	}
	for i, s := range d.Sections {
		env.Sections[i] = envelopeFor(s)
	}
	return json.Marshal(env)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var env documentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	sections := make([]Section, 0, len(env.Sections))
	for i, se := range env.Sections {
		section, err := se.toSection()
		if err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
		sections = append(sections, section)
	}

	d.Frontmatter = env.Frontmatter
	d.Title = env.Title
	d.Sections = sections
	d.TeacherMaterial = env.TeacherMaterial
	return nil
}

package dialect

import "strings"

// Element is one printable piece extracted from dialect text. The parser is
// deliberately lossier than the generator: nested callout nuance collapses
// into a flat box, because the print renderer only needs print-worthy text.
type Element interface {
	element()
}

// Heading is a markdown heading, level already capped for print.
type Heading struct {
	Level int
	Text  string
}

// Box is a callout reduced to a titled, shaded container.
type Box struct {
	Title string
	Lines []string
}

// QuestionList holds the decoded questions of an answer-widget URL, in
// parameter-key order.
type QuestionList struct {
	Questions []string
}

// AudioRef points at an embedded audio segment.
type AudioRef struct {
	URL string
}

// Paragraph is any line the classifiers did not claim, wiki links stripped.
type Paragraph struct {
	Text string
}

func (Heading) element()      {}
func (Box) element()          {}
func (QuestionList) element() {}
func (AudioRef) element()     {}
func (Paragraph) element()    {}

// Parse scans dialect text left to right, once, and extracts printable
// elements. It never fails: unrecognized structure degrades to plain
// paragraphs, malformed embeds are dropped silently.
func Parse(text string) []Element {
	lines := strings.Split(stripFrontmatter(text), "\n")

	var elements []Element
	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		if line == "" {
			i++
			continue
		}

		if level, heading, ok := headingLevel(line); ok {
			elements = append(elements, Heading{Level: level, Text: heading})
			i++
			continue
		}

		if _, title, ok := matchCallout(line); ok {
			var content []string
			i++
			for i < len(lines) && isNestedQuoteLine(strings.TrimSpace(lines[i])) {
				content = append(content, nestedQuoteContent(strings.TrimSpace(lines[i])))
				i++
			}
			// Older generator revisions inlined the content on the opening
			// line; fall back to it so those documents still print.
			if len(content) == 0 && title != "" {
				content = append(content, title)
			}
			elements = append(elements, Box{Title: title, Lines: content})
			continue
		}

		if src, ok := extractIframeSrc(line); ok {
			if questions, ok := questionsFromURL(src); ok {
				elements = append(elements, QuestionList{Questions: questions})
			}
			i++
			continue
		}

		if src, ok := extractAudioSrc(line); ok {
			elements = append(elements, AudioRef{URL: src})
			i++
			continue
		}

		if cleaned := strings.TrimSpace(stripWikiLinks(line)); cleaned != "" {
			elements = append(elements, Paragraph{Text: cleaned})
		}
		i++
	}
	return elements
}

// stripFrontmatter removes a leading frontmatter block delimited by two
// lines of three dashes. The frontmatter content carries nothing the print
// pipeline needs, so it is discarded.
func stripFrontmatter(text string) string {
	lines := strings.Split(text, "\n")

	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	if start >= len(lines) || strings.TrimSpace(lines[start]) != "---" {
		return text
	}

	for i := start + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[i+1:], "\n")
		}
	}
	return text
}

package dialect

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// Each line shape the parser recognizes gets its own predicate+extractor
// pair so drift in one classifier cannot break the others.

var (
	calloutRe   = regexp.MustCompile(`^>\[!(\w+)\](.*)`)
	iframeSrcRe = regexp.MustCompile(`src="([^"]+)"`)
	audioSrcRe  = regexp.MustCompile(`<source src="([^"]+)"`)
	wikiLinkRe  = regexp.MustCompile(`\[\[(.*?)\]\]`)
	emphasisRe  = regexp.MustCompile(`\*\*|\*`)
)

// headingLevel reports whether line is a heading and extracts its level and
// text. The level is capped at 4; finer levels add nothing on paper.
func headingLevel(line string) (int, string, bool) {
	if !strings.HasPrefix(line, "#") {
		return 0, "", false
	}
	level := len(line) - len(strings.TrimLeft(line, "#"))
	text := strings.TrimSpace(strings.TrimLeft(line, "# "))
	if level > 4 {
		level = 4
	}
	return level, text, true
}

// matchCallout reports whether line opens a first-level callout and extracts
// its tag and title.
func matchCallout(line string) (tag, title string, ok bool) {
	m := calloutRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

// isNestedQuoteLine reports whether line continues the body of an open
// callout block.
func isNestedQuoteLine(line string) bool {
	return strings.HasPrefix(line, ">>")
}

// nestedQuoteContent strips the quote markers off a callout body line.
func nestedQuoteContent(line string) string {
	return strings.TrimLeft(line, "> ")
}

// extractIframeSrc extracts the src attribute from an iframe embed line.
func extractIframeSrc(line string) (string, bool) {
	if !strings.Contains(line, `<iframe src="`) {
		return "", false
	}
	m := iframeSrcRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// extractAudioSrc extracts the source URL from an audio embed line.
func extractAudioSrc(line string) (string, bool) {
	if !strings.Contains(line, "<audio controls>") {
		return "", false
	}
	m := audioSrcRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// stripWikiLinks replaces every [[Term]] with Term.
func stripWikiLinks(line string) string {
	return wikiLinkRe.ReplaceAllString(line, "$1")
}

// questionsFromURL parses a widget URL and returns the decoded question
// texts ordered by parameter key name. A URL that cannot be parsed or that
// carries no question parameters yields ok == false.
func questionsFromURL(raw string) ([]string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	values, err := url.ParseQuery(parsed.RawQuery)
	if err != nil {
		return nil, false
	}

	var keys []string
	for key := range values {
		if strings.HasPrefix(key, "question") {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil, false
	}
	sort.Strings(keys)

	questions := make([]string, len(keys))
	for i, key := range keys {
		questions[i] = emphasisRe.ReplaceAllString(values.Get(key), "")
	}
	return questions, true
}

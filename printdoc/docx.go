package printdoc

import (
	"fmt"
	"regexp"
	"strings"
)

// Low-level WordprocessingML fragment builders for the worksheet body.

var (
	xmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	printMarkerRe = regexp.MustCompile(`\*\*|\[\[|\]\]`)
	listMarkerRe  = regexp.MustCompile(`^\s*-\s+`)
)

func escape(s string) string {
	return xmlEscaper.Replace(s)
}

// cleanPrintLine strips markdown emphasis, wiki-link brackets and a leading
// list marker; on paper they are just noise.
func cleanPrintLine(s string) string {
	s = printMarkerRe.ReplaceAllString(s, "")
	s = listMarkerRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func writeParagraph(sb *strings.Builder, text string) {
	sb.WriteString("<w:p><w:r><w:t xml:space=\"preserve\">")
	sb.WriteString(escape(text))
	sb.WriteString("</w:t></w:r></w:p>\n")
}

func writeBoldParagraph(sb *strings.Builder, text string) {
	sb.WriteString("<w:p><w:r><w:rPr><w:b/></w:rPr><w:t xml:space=\"preserve\">")
	sb.WriteString(escape(text))
	sb.WriteString("</w:t></w:r></w:p>\n")
}

func writeHeading(sb *strings.Builder, level int, text string) {
	if level < 1 {
		level = 1
	}
	if level > 4 {
		level = 4
	}
	fmt.Fprintf(sb, "<w:p><w:pPr><w:pStyle w:val=\"Heading%d\"/></w:pPr><w:r><w:t xml:space=\"preserve\">%s</w:t></w:r></w:p>\n",
		level, escape(text))
}

// writeShadedBox emits a single-cell bordered table with a light gray fill:
// a bold title followed by one paragraph per content line.
func writeShadedBox(sb *strings.Builder, title string, lines []string) {
	sb.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/><w:tblBorders>`)
	for _, side := range []string{"top", "left", "bottom", "right"} {
		fmt.Fprintf(sb, `<w:%s w:val="single" w:sz="4" w:space="0" w:color="auto"/>`, side)
	}
	sb.WriteString(`</w:tblBorders></w:tblPr><w:tr><w:tc>`)
	sb.WriteString(`<w:tcPr><w:shd w:val="clear" w:color="auto" w:fill="EAEAEA"/></w:tcPr>` + "\n")

	writeBoldParagraph(sb, cleanPrintLine(title))
	for _, line := range lines {
		writeParagraph(sb, cleanPrintLine(line))
	}

	sb.WriteString("</w:tc></w:tr></w:tbl>\n")
	// An empty paragraph keeps consecutive tables from merging.
	sb.WriteString("<w:p/>\n")
}

// writeAnswerLines emits rows of bottom-bordered empty paragraphs as
// handwriting space under a printed question.
func writeAnswerLines(sb *strings.Builder, rows int) {
	for range rows {
		sb.WriteString(`<w:p><w:pPr><w:pBdr><w:bottom w:val="single" w:sz="4" w:space="1" w:color="auto"/></w:pBdr>`)
		sb.WriteString(`<w:spacing w:before="240" w:after="60"/></w:pPr></w:p>` + "\n")
	}
}

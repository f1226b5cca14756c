// Package textbox builds URLs for the external answer-collection web page.
// The page reads its assignment id, sub id and questions from query
// parameters, so parameter order and encoding are part of the contract.
package textbox

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultBaseURL is the hosted answer-collection page. The path and host
// must not be changed by callers that want their answers collected centrally;
// self-hosted deployments can point a Builder elsewhere.
const DefaultBaseURL = "https://allgemeinbildung.github.io/textbox/answers.html?"

// Builder constructs widget URLs against a fixed base.
type Builder struct {
	base string
}

// Option configures a Builder.
type Option func(*Builder)

// WithBaseURL overrides the answer-collection page base URL.
func WithBaseURL(base string) Option {
	return func(b *Builder) {
		if base != "" {
			b.base = base
		}
	}
}

// NewBuilder creates a Builder targeting DefaultBaseURL unless overridden.
func NewBuilder(opts ...Option) Builder {
	b := Builder{base: DefaultBaseURL}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// BuildURL constructs the widget URL. Parameters are written in fixed order:
// assignmentId, subIds, then question1..questionN following the order of
// questions. Two calls with identical inputs produce byte-identical output.
func (b Builder) BuildURL(assignmentID, subIDs string, questions []string) string {
	var sb strings.Builder
	sb.WriteString(b.base)
	if !strings.HasSuffix(b.base, "?") && !strings.HasSuffix(b.base, "&") {
		sb.WriteString("?")
	}

	sb.WriteString("assignmentId=")
	sb.WriteString(url.QueryEscape(assignmentID))
	sb.WriteString("&subIds=")
	sb.WriteString(url.QueryEscape(subIDs))
	for i, q := range questions {
		fmt.Fprintf(&sb, "&question%d=%s", i+1, url.QueryEscape(q))
	}
	return sb.String()
}

// BuildURL is a convenience over NewBuilder for the default base.
func BuildURL(assignmentID, subIDs string, questions []string) string {
	return NewBuilder().BuildURL(assignmentID, subIDs, questions)
}

// Package prompts holds the prompt templates used for lesson generation.
package prompts

import "strings"

// PromptTemplate is a plain string template with `{{.name}}` placeholders.
// Placeholders without a matching variable are left untouched, which keeps
// literal JSON braces in prompt bodies safe.
type PromptTemplate struct {
	Template string
}

// NewPromptTemplate creates a template from the given string.
func NewPromptTemplate(template string) PromptTemplate {
	return PromptTemplate{Template: template}
}

// Format substitutes the given variables into the template.
func (p PromptTemplate) Format(vars map[string]string) string {
	out := p.Template
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{{."+key+"}}", value)
	}
	return out
}

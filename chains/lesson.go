// Package chains composes retrievers, prompts and models into lesson
// generation pipelines.
package chains

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sevigo/lernkit/llms"
	"github.com/sevigo/lernkit/prompts"
	"github.com/sevigo/lernkit/schema"
)

var ErrEmptyTopic = errors.New("chains: topic cannot be empty")

// LessonChain retrieves source material for a topic and asks the model to
// produce a structured lesson document.
type LessonChain struct {
	Retriever schema.Retriever
	LLM       llms.Model
	prompt    prompts.PromptTemplate
	logger    *slog.Logger
}

type LessonChainOption func(*LessonChain)

func WithPrompt(prompt prompts.PromptTemplate) LessonChainOption {
	return func(c *LessonChain) {
		c.prompt = prompt
	}
}

func WithLogger(logger *slog.Logger) LessonChainOption {
	return func(c *LessonChain) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewLessonChain(retriever schema.Retriever, llm llms.Model, opts ...LessonChainOption) (LessonChain, error) {
	if retriever == nil {
		return LessonChain{}, errors.New("retriever cannot be nil")
	}
	if llm == nil {
		return LessonChain{}, errors.New("LLM cannot be nil")
	}

	chain := LessonChain{
		Retriever: retriever,
		LLM:       llm,
		prompt:    prompts.DefaultLessonPrompt,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&chain)
	}
	chain.logger = chain.logger.With("component", "lesson_chain")

	return chain, nil
}

// Call generates a lesson document for the given topic.
func (c LessonChain) Call(ctx context.Context, topic string, options ...llms.CallOption) (*schema.Document, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrEmptyTopic
	}

	c.logger.Debug("Starting chunk retrieval", "topic", topic)
	chunks, err := c.Retriever.GetRelevantChunks(ctx, topic)
	if err != nil {
		c.logger.Error("Chunk retrieval failed", "error", err)
		return nil, fmt.Errorf("chunk retrieval failed: %w", err)
	}

	contextStr := buildContextString(chunks)
	c.logger.Debug("Built context string", "chunk_count", len(chunks), "context_length", len(contextStr))

	prompt := c.prompt.Format(map[string]string{
		"context": contextStr,
		"topic":   topic,
	})

	response, err := c.LLM.Call(ctx, prompt, options...)
	if err != nil {
		c.logger.Error("Lesson generation failed", "error", err)
		return nil, fmt.Errorf("lesson generation failed: %w", err)
	}

	doc, err := parseLessonResponse(response)
	if err != nil {
		c.logger.Error("Lesson response is not valid JSON", "error", err)
		return nil, fmt.Errorf("parse lesson response: %w", err)
	}

	c.logger.Info("Lesson generated", "topic", topic, "sections", len(doc.Sections))
	return doc, nil
}

func buildContextString(chunks []schema.Chunk) string {
	if len(chunks) == 0 {
		return ""
	}

	contents := make([]string, len(chunks))
	for i, chunk := range chunks {
		contents[i] = chunk.PageContent
	}
	return strings.Join(contents, "\n\n---\n\n")
}

// parseLessonResponse decodes the model output, tolerating markdown code
// fences that some models insist on adding.
func parseLessonResponse(response string) (*schema.Document, error) {
	text := strings.TrimSpace(response)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var doc schema.Document
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, err
	}
	if doc.Title == "" {
		return nil, errors.New("document has no title")
	}
	return &doc, nil
}

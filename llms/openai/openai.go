// Package openai provides an llms.Model backed by the official openai-go
// SDK. Any OpenAI-compatible endpoint works via WithBaseURL.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/sevigo/lernkit/llms"
	"github.com/sevigo/lernkit/schema"
)

var (
	ErrNoAPIKey     = errors.New("openai: API key is required")
	ErrInvalidModel = errors.New("openai: invalid model specified")
	ErrNoContent    = errors.New("openai: no content generated")
)

// LLM implements the Model interface for OpenAI chat completions.
type LLM struct {
	client  sdk.Client
	options options
	logger  *slog.Logger
}

var _ llms.Model = (*LLM)(nil)

// New creates a new OpenAI LLM client.
func New(opts ...Option) (*LLM, error) {
	o := applyOptions(opts...)

	if o.apiKey == "" {
		o.apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if o.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	if o.model == "" {
		return nil, ErrInvalidModel
	}

	requestOpts := []option.RequestOption{option.WithAPIKey(o.apiKey)}
	if o.baseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(o.baseURL))
	}

	llm := &LLM{
		client:  sdk.NewClient(requestOpts...),
		options: o,
		logger:  o.logger.With("component", "openai_llm", "model", o.model),
	}

	llm.logger.Info("OpenAI LLM initialized successfully")
	return llm, nil
}

// Call is a convenience method for a single-turn conversation.
func (o *LLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, o, prompt, options...)
}

// GenerateContent handles multi-turn conversations.
func (o *LLM) GenerateContent(
	ctx context.Context,
	messages []schema.MessageContent,
	options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	start := time.Now()

	callOpts := &llms.CallOptions{}
	for _, opt := range options {
		opt(callOpts)
	}

	model := o.options.model
	if callOpts.Model != "" {
		model = callOpts.Model
	}

	params := sdk.ChatCompletionNewParams{
		Model:    sdk.ChatModel(model),
		Messages: convertMessages(messages),
	}
	if callOpts.Temperature > 0 {
		params.Temperature = sdk.Float(callOpts.Temperature)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)
	if err != nil {
		o.logger.ErrorContext(ctx, "OpenAI client failed", "error", err, "duration", duration)
		return nil, fmt.Errorf("openai: chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrNoContent
	}

	choices := make([]*llms.ContentChoice, 0, len(resp.Choices))
	for _, c := range resp.Choices {
		choices = append(choices, &llms.ContentChoice{
			Content:    c.Message.Content,
			StopReason: string(c.FinishReason),
			GenerationInfo: map[string]any{
				"TotalTokens": resp.Usage.TotalTokens,
				"Duration":    duration,
				"Model":       model,
			},
		})
	}

	return &llms.ContentResponse{Choices: choices}, nil
}

// convertMessages maps the generic schema onto chat completion params.
func convertMessages(messages []schema.MessageContent) []sdk.ChatCompletionMessageParamUnion {
	result := make([]sdk.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		text := msg.GetTextContent()
		switch msg.Role {
		case schema.ChatMessageTypeSystem:
			result = append(result, sdk.SystemMessage(text))
		case schema.ChatMessageTypeAI:
			result = append(result, sdk.ChatCompletionMessageParamOfAssistant(text))
		default:
			result = append(result, sdk.UserMessage(text))
		}
	}
	return result
}

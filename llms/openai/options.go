package openai

import (
	"log/slog"
)

// options holds configuration for the OpenAI client.
type options struct {
	model   string
	apiKey  string
	baseURL string
	logger  *slog.Logger
}

// Option is a function type for configuring the client.
type Option func(*options)

func applyOptions(opts ...Option) options {
	o := options{
		model:  "gpt-4o-mini",
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(opts *options) {
		opts.model = model
	}
}

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(apiKey string) Option {
	return func(opts *options) {
		opts.apiKey = apiKey
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(opts *options) {
		opts.baseURL = baseURL
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

package llms

import "context"

type CallOption func(*CallOptions)

type CallOptions struct {
	Model         string                                        `json:"model"`
	Temperature   float64                                       `json:"temperature"`
	Metadata      map[string]any                                `json:"metadata,omitempty"`
	StreamingFunc func(ctx context.Context, chunk []byte) error `json:"-"`
}

// WithModel overrides the model for a single call.
func WithModel(model string) CallOption {
	return func(o *CallOptions) {
		o.Model = model
	}
}

// WithTemperature sets the sampling temperature for a single call.
func WithTemperature(temperature float64) CallOption {
	return func(o *CallOptions) {
		o.Temperature = temperature
	}
}

// WithStreamingFunc specifies the streaming function to use.
func WithStreamingFunc(streamingFunc func(ctx context.Context, chunk []byte) error) CallOption {
	return func(o *CallOptions) {
		o.StreamingFunc = streamingFunc
	}
}

package qdrant

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/sevigo/lernkit/embeddings"
)

const (
	defaultHost = "localhost"
	defaultPort = 6334
)

// options holds all configuration options for the Qdrant store.
type options struct {
	collectionName string
	qdrantURL      url.URL
	embedder       embeddings.Embedder
	apiKey         string
	logger         *slog.Logger
	useTLS         bool
}

// Option defines a function type for configuring Qdrant store options.
type Option func(*options)

// WithCollectionName sets the collection name for the Qdrant store.
func WithCollectionName(name string) Option {
	return func(opts *options) {
		opts.collectionName = strings.TrimSpace(name)
	}
}

// WithLogger sets the logger for the Qdrant store.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithURL sets the Qdrant server URL.
func WithURL(qdrantURL url.URL) Option {
	return func(opts *options) {
		opts.qdrantURL = qdrantURL
	}
}

// WithHostAndPort sets the Qdrant server host and port.
func WithHostAndPort(host string, port int) Option {
	return func(opts *options) {
		if host != "" && port > 0 {
			opts.qdrantURL = url.URL{
				Scheme: "http",
				Host:   fmt.Sprintf("%s:%d", host, port),
			}
		}
	}
}

// WithEmbedder sets the embedder for generating vector embeddings.
func WithEmbedder(embedder embeddings.Embedder) Option {
	return func(opts *options) {
		opts.embedder = embedder
	}
}

// WithAPIKey sets the API key for Qdrant authentication.
func WithAPIKey(apiKey string) Option {
	return func(opts *options) {
		opts.apiKey = strings.TrimSpace(apiKey)
	}
}

// WithTLS enables or disables TLS for the Qdrant connection.
func WithTLS(useTLS bool) Option {
	return func(opts *options) {
		opts.useTLS = useTLS
		if opts.qdrantURL.Host != "" {
			if useTLS {
				opts.qdrantURL.Scheme = "https"
			} else {
				opts.qdrantURL.Scheme = "http"
			}
		}
	}
}

func applyDefaults(opts *options) {
	if opts.logger == nil {
		opts.logger = slog.Default()
	}

	if opts.qdrantURL.Host == "" {
		scheme := "http"
		if opts.useTLS {
			scheme = "https"
		}
		opts.qdrantURL = url.URL{
			Scheme: scheme,
			Host:   fmt.Sprintf("%s:%d", defaultHost, defaultPort),
		}
	}
}

func (opts *options) validate() error {
	if strings.TrimSpace(opts.collectionName) == "" {
		return errors.New("collection name is required")
	}

	if opts.qdrantURL.Host != "" {
		if opts.qdrantURL.Scheme != "http" && opts.qdrantURL.Scheme != "https" {
			return errors.New("URL scheme must be http or https")
		}
	}

	return nil
}

// parseOptions processes the provided options and returns a configured options struct.
func parseOptions(opts ...Option) (options, error) {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	applyDefaults(&o)

	if err := o.validate(); err != nil {
		return o, err
	}
	return o, nil
}

// String returns a string representation of the options (excluding sensitive data).
func (opts *options) String() string {
	var parts []string

	parts = append(parts, "collection="+opts.collectionName)
	parts = append(parts, "host="+opts.qdrantURL.Host)

	if opts.apiKey != "" {
		parts = append(parts, "has_api_key=true")
	}
	if opts.embedder != nil {
		parts = append(parts, "has_embedder=true")
	}

	return "QdrantOptions{" + strings.Join(parts, ", ") + "}"
}

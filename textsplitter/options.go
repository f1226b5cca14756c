package textsplitter

// options holds configuration settings for the text splitter.
type options struct {
	chunkSize    int
	chunkOverlap int
}

// Option is a function type for configuring the splitter.
type Option func(*options)

// WithChunkSize sets the target chunk size.
func WithChunkSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.chunkSize = size
		}
	}
}

// WithChunkOverlap sets the chunk overlap.
func WithChunkOverlap(overlap int) Option {
	return func(o *options) {
		if overlap >= 0 {
			o.chunkOverlap = overlap
		}
	}
}

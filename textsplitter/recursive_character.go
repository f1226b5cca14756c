package textsplitter

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/sevigo/lernkit/schema"
)

// RecursiveCharacter is a text splitter that recursively tries to split text
// using a list of separators. It aims to keep semantically related parts of
// the text together as long as possible.
type RecursiveCharacter struct {
	opts options
}

var _ TextSplitter = (*RecursiveCharacter)(nil)

// NewRecursiveCharacter creates a new RecursiveCharacter text splitter.
func NewRecursiveCharacter(opts ...Option) *RecursiveCharacter {
	o := options{
		chunkSize:    1000,
		chunkOverlap: 200,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return &RecursiveCharacter{
		opts: o,
	}
}

// SplitChunks splits each chunk's content, carrying the metadata over to
// every resulting chunk.
func (s *RecursiveCharacter) SplitChunks(ctx context.Context, chunks []schema.Chunk) ([]schema.Chunk, error) {
	var result []schema.Chunk
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pieces, err := s.SplitText(ctx, chunk.PageContent)
		if err != nil {
			return nil, err
		}

		for i, piece := range pieces {
			metadata := maps.Clone(chunk.Metadata)
			if metadata == nil {
				metadata = map[string]any{}
			}
			metadata["chunk_index"] = i
			result = append(result, schema.NewChunk(piece, metadata))
		}
	}
	return result, nil
}

// SplitText splits a single text into multiple chunks.
func (s *RecursiveCharacter) SplitText(_ context.Context, text string) ([]string, error) {
	separators := []string{"\n\n", "\n", " ", ""} // from largest to smallest
	return s.splitTextRecursive(text, separators)
}

// splitTextRecursive is the core logic that recursively splits text.
func (s *RecursiveCharacter) splitTextRecursive(text string, separators []string) ([]string, error) {
	var finalChunks []string

	// If the text is already small enough, just return it.
	if len(text) <= s.opts.chunkSize {
		return []string{text}, nil
	}

	// Base case for the recursion: If we've run out of separators,
	// we must add the oversized text as-is and stop.
	if len(separators) == 0 {
		return []string{text}, nil
	}

	separator := separators[0]
	remainingSeparators := separators[1:]

	splits := strings.Split(text, separator)
	var goodSplits []string
	currentSplit := ""

	for _, split := range splits {
		if len(split) == 0 {
			continue
		}

		// If adding the next split doesn't exceed the chunk size, merge it.
		if len(currentSplit) > 0 && len(currentSplit)+len(separator)+len(split) <= s.opts.chunkSize {
			currentSplit += separator + split
		} else {
			if len(currentSplit) > 0 {
				goodSplits = append(goodSplits, currentSplit)
			}
			currentSplit = split
		}
	}
	if currentSplit != "" {
		goodSplits = append(goodSplits, currentSplit)
	}

	// If a split is still too large, recursively split it with the
	// remaining separators.
	for _, split := range goodSplits {
		if len(split) <= s.opts.chunkSize {
			finalChunks = append(finalChunks, split)
		} else {
			recursiveChunks, err := s.splitTextRecursive(split, remainingSeparators)
			if err != nil {
				return nil, err
			}
			finalChunks = append(finalChunks, recursiveChunks...)
		}
	}

	if s.opts.chunkOverlap > 0 && len(finalChunks) > 1 {
		return s.mergeWithOverlap(finalChunks)
	}

	return finalChunks, nil
}

// mergeWithOverlap combines chunks, adding the specified overlap between them.
func (s *RecursiveCharacter) mergeWithOverlap(chunks []string) ([]string, error) {
	if s.opts.chunkOverlap >= s.opts.chunkSize {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", s.opts.chunkOverlap, s.opts.chunkSize)
	}

	var mergedChunks []string
	currentChunk := ""
	separator := "\n"

	for i, chunk := range chunks {
		if currentChunk == "" {
			currentChunk = chunk
			continue
		}

		var overlap string
		if len(currentChunk) > s.opts.chunkOverlap {
			overlap = currentChunk[len(currentChunk)-s.opts.chunkOverlap:]
		} else {
			overlap = currentChunk
		}

		if len(currentChunk)+len(separator)+len(chunk) <= s.opts.chunkSize {
			currentChunk += separator + chunk
		} else {
			mergedChunks = append(mergedChunks, currentChunk)
			currentChunk = overlap + separator + chunk
		}

		if i == len(chunks)-1 {
			mergedChunks = append(mergedChunks, currentChunk)
		}
	}

	return mergedChunks, nil
}

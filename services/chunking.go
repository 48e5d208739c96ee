package services

import (
	"fmt"
	"strings"
)

// ChunkingStrategy selects how uploaded text is split into fragments.
type ChunkingStrategy string

const (
	StrategyFixedSize     ChunkingStrategy = "fixed_size"
	StrategySentenceBased ChunkingStrategy = "sentence_based"
)

// ParseChunkingStrategy validates a caller-supplied strategy selector.
func ParseChunkingStrategy(s string) (ChunkingStrategy, error) {
	switch ChunkingStrategy(s) {
	case StrategyFixedSize:
		return StrategyFixedSize, nil
	case StrategySentenceBased:
		return StrategySentenceBased, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// TextChunker splits extracted text into ordered, trimmed, non-empty fragments.
type TextChunker struct {
	chunkSize         int
	overlap           int
	sentencesPerChunk int
}

// NewTextChunker builds a chunker. The overlap must be smaller than the chunk
// size or the fixed-size window would never advance.
func NewTextChunker(chunkSize, overlap, sentencesPerChunk int) (*TextChunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap (%d) must be non-negative and smaller than chunk size (%d)", overlap, chunkSize)
	}
	if sentencesPerChunk <= 0 {
		return nil, fmt.Errorf("sentences per chunk must be positive, got %d", sentencesPerChunk)
	}
	return &TextChunker{
		chunkSize:         chunkSize,
		overlap:           overlap,
		sentencesPerChunk: sentencesPerChunk,
	}, nil
}

// Chunk splits text using the given strategy. Empty input yields an empty
// sequence, not an error.
func (c *TextChunker) Chunk(text string, strategy ChunkingStrategy) ([]string, error) {
	switch strategy {
	case StrategyFixedSize:
		return c.ChunkFixedSize(text), nil
	case StrategySentenceBased:
		return c.ChunkSentenceBased(text), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// ChunkFixedSize slides a window of chunkSize characters over the text,
// advancing chunkSize-overlap each step. Windows are trimmed and empty
// windows dropped.
func (c *TextChunker) ChunkFixedSize(text string) []string {
	runes := []rune(text)
	step := c.chunkSize - c.overlap

	chunks := make([]string, 0)
	for start := 0; start < len(runes); start += step {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		if window := strings.TrimSpace(string(runes[start:end])); window != "" {
			chunks = append(chunks, window)
		}
	}

	return chunks
}

// ChunkSentenceBased splits on the literal "." delimiter and groups sentences
// into runs of sentencesPerChunk joined by single spaces. The naive delimiter
// split is deliberate: abbreviations and decimals are not handled.
func (c *TextChunker) ChunkSentenceBased(text string) []string {
	sentences := make([]string, 0)
	for _, part := range strings.Split(strings.ReplaceAll(text, "\n", " "), ".") {
		if sentence := strings.TrimSpace(part); sentence != "" {
			sentences = append(sentences, sentence+".")
		}
	}

	chunks := make([]string, 0)
	for i := 0; i < len(sentences); i += c.sentencesPerChunk {
		end := i + c.sentencesPerChunk
		if end > len(sentences) {
			end = len(sentences)
		}

		if chunk := strings.TrimSpace(strings.Join(sentences[i:end], " ")); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	return chunks
}

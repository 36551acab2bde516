package service

import (
	"strings"

	"github.com/tieubaoca/consent-draft-be/types"
)

// Splitter cuts one logical document string into overlapping chunks
// sized by a token-aware length function. It always operates on the
// concatenated document, never page by page, so chunks are free to
// span the original page boundaries.
type Splitter struct {
	maxChunkTokens int
	overlapTokens  int
	tokenLen       TokenLenFunc
}

func NewSplitter(cfg types.ChunkerConfig, tokenLen TokenLenFunc) *Splitter {
	if cfg.MaxChunkTokens <= 0 {
		cfg.MaxChunkTokens = 2000
	}
	if cfg.OverlapTokens < 0 || cfg.OverlapTokens >= cfg.MaxChunkTokens {
		cfg.OverlapTokens = cfg.MaxChunkTokens / 10
	}
	return &Splitter{
		maxChunkTokens: cfg.MaxChunkTokens,
		overlapTokens:  cfg.OverlapTokens,
		tokenLen:       tokenLen,
	}
}

// Split returns the overlapping chunk texts for a document, in order.
func (s *Splitter) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	// Per-word token counts; the cost of a chunk is the sum of its
	// words, which slightly overestimates joined text and keeps every
	// chunk under budget.
	costs := make([]int, len(words))
	for i, w := range words {
		costs[i] = s.tokenLen(w)
		if costs[i] == 0 {
			costs[i] = 1
		}
	}

	var chunks []string
	start := 0
	for start < len(words) {
		end := start
		tokens := 0
		for end < len(words) && tokens+costs[end] <= s.maxChunkTokens {
			tokens += costs[end]
			end++
		}
		if end == start {
			// Single word over budget; emit it alone rather than loop.
			end = start + 1
		}

		// Prefer to break at a sentence end if one falls in the second
		// half of the chunk, so retrieval matches are not cut mid-thought.
		if end < len(words) {
			if cut := lastSentenceEnd(words, start, end); cut > start+(end-start)/2 {
				end = cut
			}
		}

		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end >= len(words) {
			break
		}

		// Walk back from the cut until overlapTokens worth of words
		// will be repeated at the head of the next chunk.
		next := end
		overlap := 0
		for next > start+1 && overlap < s.overlapTokens {
			next--
			overlap += costs[next]
		}
		start = next
	}

	return chunks
}

// lastSentenceEnd returns the index just past the last word in
// words[start:end] that terminates a sentence, or start when none does.
func lastSentenceEnd(words []string, start, end int) int {
	for i := end - 1; i > start; i-- {
		if strings.HasSuffix(words[i], ".") || strings.HasSuffix(words[i], "?") || strings.HasSuffix(words[i], "!") {
			return i + 1
		}
	}
	return start
}

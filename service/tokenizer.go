package service

import (
	"sync"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// TokenLenFunc measures text length in model tokens. Chunk budgets are
// expressed in tokens so a chunk never blows past the context window
// regardless of the script it is written in.
type TokenLenFunc func(text string) int

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// NewTokenLen returns a length function backed by the tiktoken
// encoding for the given model. If the encoding cannot be loaded
// (offline environments), a rune-count estimate is used instead; the
// estimate overshoots slightly, which only makes chunks smaller.
func NewTokenLen(model string) TokenLenFunc {
	encodingOnce.Do(func() {
		enc, err := tiktoken.EncodingForModel(model)
		if err != nil {
			enc, err = tiktoken.GetEncoding("cl100k_base")
		}
		if err == nil {
			encoding = enc
		}
	})
	if encoding == nil {
		return estimateTokenLen
	}
	enc := encoding
	return func(text string) int {
		return len(enc.Encode(text, nil, nil))
	}
}

// estimateTokenLen approximates one token per four characters, the
// usual rule of thumb for English text.
func estimateTokenLen(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return n/4 + 1
}

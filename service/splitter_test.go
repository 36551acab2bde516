package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/consent-draft-be/types"
)

// wordTokenLen counts every word as one token, which makes chunk
// boundaries easy to reason about in tests.
func wordTokenLen(string) int { return 1 }

func numberedWords(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return words
}

func TestSplitEmptyText(t *testing.T) {
	s := NewSplitter(types.ChunkerConfig{MaxChunkTokens: 10, OverlapTokens: 2}, wordTokenLen)
	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\t  "))
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	s := NewSplitter(types.ChunkerConfig{MaxChunkTokens: 10, OverlapTokens: 2}, wordTokenLen)
	chunks := s.Split("a short protocol excerpt")
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short protocol excerpt", chunks[0])
}

func TestSplitBudgetAndOverlap(t *testing.T) {
	words := numberedWords(25)
	s := NewSplitter(types.ChunkerConfig{MaxChunkTokens: 10, OverlapTokens: 3}, wordTokenLen)

	chunks := s.Split(strings.Join(words, " "))

	want := []string{
		strings.Join(words[0:10], " "),
		strings.Join(words[7:17], " "),
		strings.Join(words[14:24], " "),
		strings.Join(words[21:25], " "),
	}
	assert.Equal(t, want, chunks)

	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(strings.Fields(chunk)), 10, "chunk %d over budget", i)
	}
}

func TestSplitPrefersSentenceBreak(t *testing.T) {
	words := numberedWords(15)
	words[7] = "w7." // sentence end inside the second half of the first chunk
	s := NewSplitter(types.ChunkerConfig{MaxChunkTokens: 10, OverlapTokens: 0}, wordTokenLen)

	chunks := s.Split(strings.Join(words, " "))

	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Join(words[0:8], " "), chunks[0])
	assert.Equal(t, strings.Join(words[8:], " "), chunks[1])
}

func TestSplitSpansPageBoundaries(t *testing.T) {
	pageOne := "the study evaluates a new therapy for chronic pain"
	pageTwo := "participants will receive weekly infusions for six months"
	s := NewSplitter(types.ChunkerConfig{MaxChunkTokens: 50, OverlapTokens: 5}, wordTokenLen)

	chunks := s.Split(pageOne + "\n" + pageTwo)

	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "chronic pain participants")
}

func TestSplitOversizedWordEmittedAlone(t *testing.T) {
	bigTokenLen := func(string) int { return 50 }
	s := NewSplitter(types.ChunkerConfig{MaxChunkTokens: 10, OverlapTokens: 2}, bigTokenLen)

	chunks := s.Split("alpha beta gamma")

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, chunks)
}

func TestNewSplitterDefaults(t *testing.T) {
	// A zero config and a degenerate overlap both fall back to sane values.
	s := NewSplitter(types.ChunkerConfig{}, wordTokenLen)
	assert.Equal(t, 2000, s.maxChunkTokens)
	assert.Equal(t, 0, s.overlapTokens)

	s = NewSplitter(types.ChunkerConfig{MaxChunkTokens: 100, OverlapTokens: 100}, wordTokenLen)
	assert.Equal(t, 10, s.overlapTokens)
}

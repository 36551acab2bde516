package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tieubaoca/consent-draft-be/types"
)

// fakeIndex is an in-memory VectorIndex. Search returns stored chunks
// filtered by title in insertion order, all at the same distance.
type fakeIndex struct {
	mu         sync.Mutex
	chunks     []types.Chunk
	inserts    int
	lastTitles []string
	lastLimit  int
	searchErr  error
}

func (f *fakeIndex) InsertChunks(ctx context.Context, chunks []types.Chunk, vectors [][]float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(chunks) != len(vectors) {
		return fmt.Errorf("got %d chunks and %d vectors", len(chunks), len(vectors))
	}
	f.chunks = append(f.chunks, chunks...)
	f.inserts++
	return nil
}

func (f *fakeIndex) ExistingHashes(ctx context.Context, hashes []string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := make(map[string]bool, len(f.chunks))
	for _, c := range f.chunks {
		stored[c.ContentHash] = true
	}
	existing := make(map[string]bool)
	for _, h := range hashes {
		if stored[h] {
			existing[h] = true
		}
	}
	return existing, nil
}

func (f *fakeIndex) SearchSimilar(ctx context.Context, vector []float32, titles []string, limit int) ([]types.ScoredChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	f.lastTitles = append([]string(nil), titles...)
	f.lastLimit = limit
	var out []types.ScoredChunk
	for _, c := range f.chunks {
		if len(titles) > 0 && !containsString(titles, c.DocumentTitle) {
			continue
		}
		out = append(out, types.ScoredChunk{Chunk: c, Distance: 0.1})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

// fakeEmbedder returns a deterministic vector per text and counts
// backend calls so caching behavior is observable.
type fakeEmbedder struct {
	mu         sync.Mutex
	embedded   []string
	batchCalls int
	err        error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.batchCalls++
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		f.embedded = append(f.embedded, text)
		vectors[i] = []float32{float32(len(text)), 1}
	}
	return vectors, nil
}

func (f *fakeEmbedder) ModelName() string {
	return "fake-embedding"
}

// fakeExtractor maps file paths to canned text; unknown paths fail the
// way a corrupt PDF would.
type fakeExtractor struct {
	texts map[string]string
}

func (f *fakeExtractor) ExtractText(filePath string) (string, error) {
	text, ok := f.texts[filePath]
	if !ok {
		return "", errors.New("no text extracted from " + filePath)
	}
	return text, nil
}

// scriptedGenerator streams the configured words one call at a time.
// Prompts containing failOn fail instead, without streaming anything.
type scriptedGenerator struct {
	words   []string
	failOn  string
	failErr error
}

func (g *scriptedGenerator) GenerateStream(ctx context.Context, prompt string, handler types.StreamHandler) error {
	if g.failOn != "" && strings.Contains(prompt, g.failOn) {
		return g.failErr
	}
	for _, w := range g.words {
		if err := ctx.Err(); err != nil {
			return err
		}
		handler(w)
	}
	return nil
}

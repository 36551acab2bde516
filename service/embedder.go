package service

import (
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	openai "github.com/sashabaranov/go-openai"
)

// Embedder turns text into vectors for the retrieval index.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	ModelName() string
}

// OpenAIEmbedder uses the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

func NewOpenAIEmbedder(baseURL, apiKey, model string) *OpenAIEmbedder {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) == 0 {
		return nil, errors.New("cannot embed empty text")
	}
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("got %d embeddings for %d inputs", len(resp.Data), len(texts))
	}
	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

func (e *OpenAIEmbedder) ModelName() string {
	return e.model
}

// CachingEmbedder wraps another embedder with an on-disk byte cache
// keyed by model name + content hash, so re-ingesting identical text
// never recomputes an embedding.
type CachingEmbedder struct {
	inner    Embedder
	cacheDir string
}

func NewCachingEmbedder(inner Embedder, cacheDir string) (*CachingEmbedder, error) {
	dir := filepath.Join(cacheDir, inner.ModelName())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create embedding cache dir: %w", err)
	}
	return &CachingEmbedder{inner: inner, cacheDir: dir}, nil
}

func (e *CachingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := e.get(text); ok {
		return vec, nil
	}
	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	e.put(text, vec)
	return vec, nil
}

func (e *CachingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if vec, ok := e.get(text); ok {
			vectors[i] = vec
		} else {
			missing = append(missing, text)
			missingIdx = append(missingIdx, i)
		}
	}
	if len(missing) == 0 {
		return vectors, nil
	}
	fresh, err := e.inner.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	for i, vec := range fresh {
		vectors[missingIdx[i]] = vec
		e.put(missing[i], vec)
	}
	return vectors, nil
}

func (e *CachingEmbedder) ModelName() string {
	return e.inner.ModelName()
}

func (e *CachingEmbedder) get(text string) ([]float32, bool) {
	f, err := os.Open(e.cachePath(text))
	if err != nil {
		return nil, false
	}
	defer f.Close()
	var vec []float32
	if err := gob.NewDecoder(f).Decode(&vec); err != nil {
		return nil, false
	}
	return vec, true
}

// put failures are ignored: the cache is an optimization, never a
// source of truth.
func (e *CachingEmbedder) put(text string, vec []float32) {
	f, err := os.Create(e.cachePath(text))
	if err != nil {
		return
	}
	defer f.Close()
	_ = gob.NewEncoder(f).Encode(vec)
}

func (e *CachingEmbedder) cachePath(text string) string {
	return filepath.Join(e.cacheDir, HashContent(text)+".vec")
}

// HashContent returns the hex fingerprint used both for chunk dedup
// and as the embedding cache key.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

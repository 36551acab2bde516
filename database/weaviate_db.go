package database

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tieubaoca/consent-draft-be/config"
	"github.com/tieubaoca/consent-draft-be/types"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const BATCH_SIZE = 200

var (
	CHUNK_CLASS        = "ProtocolChunk"
	CHUNK_CLASS_OBJECT = &models.Class{
		Class: CHUNK_CLASS,
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "documentTitle", DataType: []string{"text"}},
			{Name: "contentHash", DataType: []string{"text"}},
			{Name: "sequenceIndex", DataType: []string{"int"}},
			{Name: "createdAt", DataType: []string{"int"}},
		},
		// Embeddings are computed client side, so no server vectorizer.
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
	}
)

// WeaviateStore implements VectorIndex on a single weaviate class.
type WeaviateStore struct {
	client *weaviate.Client
}

func NewWeaviateStore(config config.WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(config.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(config.Host, scheme+"://")
	cfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if config.APIKey != "" {
		cfg.AuthConfig = auth.ApiKey{
			Value: config.APIKey,
		}
		cfg.Headers = map[string]string{
			"X-Weaviate-Api-Key":     config.APIKey,
			"X-Weaviate-Cluster-Url": fmt.Sprintf("%s://%s", scheme, host),
		}
	}
	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	schema, err := client.Schema().Getter().Do(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %v", err)
	}

	hasChunkClass := false
	for _, class := range schema.Classes {
		if class.Class == CHUNK_CLASS {
			hasChunkClass = true
			break
		}
	}
	// Create ProtocolChunk class if it doesn't exist
	if !hasChunkClass {
		err = client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create ProtocolChunk class: %v", err)
		}
	}
	return &WeaviateStore{
		client: client,
	}, nil
}

// ReInit drops and recreates the chunk class, wiping the corpus.
func (s *WeaviateStore) ReInit() error {
	err := s.client.Schema().ClassDeleter().WithClassName(CHUNK_CLASS).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to delete ProtocolChunk class: %v", err)
	}

	err = s.client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to create ProtocolChunk class: %v", err)
	}
	return nil
}

func (s *WeaviateStore) InsertChunks(ctx context.Context, chunks []types.Chunk, vectors [][]float32) error {
	if len(vectors) != len(chunks) {
		return fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(chunks))
	}
	total := len(chunks)
	for i := 0; i < total; i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			properties := map[string]interface{}{
				"content":       chunks[j].Content,
				"documentTitle": chunks[j].DocumentTitle,
				"contentHash":   chunks[j].ContentHash,
				"sequenceIndex": chunks[j].SequenceIndex,
				"createdAt":     chunks[j].CreatedAt,
			}
			batcher = batcher.WithObjects(&models.Object{
				Class:      CHUNK_CLASS,
				Properties: properties,
				Vector:     vectors[j],
			})
		}

		if _, err := batcher.Do(ctx); err != nil {
			return fmt.Errorf("failed to insert batch %d-%d: %v", i, end, err)
		}
	}

	return nil
}

// ExistingHashes looks up which fingerprints already exist so ingestion
// can skip duplicate chunks.
func (s *WeaviateStore) ExistingHashes(ctx context.Context, hashes []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(hashes) == 0 {
		return existing, nil
	}

	where := filters.Where().
		WithPath([]string{"contentHash"}).
		WithOperator(filters.ContainsAny).
		WithValueText(hashes...)

	result, err := s.client.GraphQL().Get().
		WithClassName(CHUNK_CLASS).
		WithFields(graphql.Field{Name: "contentHash"}).
		WithWhere(where).
		WithLimit(len(hashes)).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("hash lookup failed: %v", err)
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("hash lookup failed: %v", result.Errors[0].Message)
	}

	if data, ok := result.Data["Get"].(map[string]interface{})[CHUNK_CLASS].([]interface{}); ok {
		for _, item := range data {
			if obj, ok := item.(map[string]interface{}); ok {
				if hash, ok := obj["contentHash"].(string); ok {
					existing[hash] = true
				}
			}
		}
	}
	return existing, nil
}

func (s *WeaviateStore) SearchSimilar(ctx context.Context, vector []float32, titles []string, limit int) ([]types.ScoredChunk, error) {
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "documentTitle"},
		{Name: "contentHash"},
		{Name: "sequenceIndex"},
		{Name: "createdAt"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}}},
	}

	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)

	getBuilder := s.client.GraphQL().Get().
		WithClassName(CHUNK_CLASS).
		WithFields(fields...).
		WithNearVector(nearVector)
	if limit > 0 {
		getBuilder = getBuilder.WithLimit(limit)
	}
	if where := buildTitleFilter(titles); where != nil {
		getBuilder = getBuilder.WithWhere(where)
	}

	result, err := getBuilder.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("search failed: %v", err)
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("search failed: %v", result.Errors[0].Message)
	}

	var chunks []types.ScoredChunk
	if data, ok := result.Data["Get"].(map[string]interface{})[CHUNK_CLASS].([]interface{}); ok {
		for _, item := range data {
			obj, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			chunk := types.ScoredChunk{
				Chunk: types.Chunk{
					Content:       obj["content"].(string),
					DocumentTitle: obj["documentTitle"].(string),
					ContentHash:   obj["contentHash"].(string),
					SequenceIndex: int(obj["sequenceIndex"].(float64)),
					CreatedAt:     int64(obj["createdAt"].(float64)),
				},
			}
			if additional, ok := obj["_additional"].(map[string]interface{}); ok {
				if d, ok := additional["distance"].(float64); ok {
					chunk.Distance = float32(d)
				}
			}
			chunks = append(chunks, chunk)
		}
	}

	// Weaviate orders by distance; re-sort with insertion order as the
	// tie break so equal-distance results are deterministic.
	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].Distance != chunks[j].Distance {
			return chunks[i].Distance < chunks[j].Distance
		}
		if chunks[i].CreatedAt != chunks[j].CreatedAt {
			return chunks[i].CreatedAt < chunks[j].CreatedAt
		}
		return chunks[i].SequenceIndex < chunks[j].SequenceIndex
	})

	return chunks, nil
}

// buildTitleFilter restricts a query to chunks from any of the given
// documents. A nil return means no restriction.
func buildTitleFilter(titles []string) *filters.WhereBuilder {
	if len(titles) == 0 {
		return nil
	}
	return filters.Where().
		WithPath([]string{"documentTitle"}).
		WithOperator(filters.ContainsAny).
		WithValueText(titles...)
}

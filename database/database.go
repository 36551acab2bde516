package database

import (
	"context"

	"github.com/tieubaoca/consent-draft-be/types"
)

// VectorIndex defines the retrieval index operations the rest of the
// system depends on. Insertion is idempotent through fingerprint
// dedup, so concurrent ingestion of overlapping documents is safe.
type VectorIndex interface {
	// InsertChunks stores chunks with their embeddings. Callers are
	// expected to have filtered out fingerprints already present.
	InsertChunks(ctx context.Context, chunks []types.Chunk, vectors [][]float32) error

	// ExistingHashes reports which of the given fingerprints are
	// already stored in the index.
	ExistingHashes(ctx context.Context, hashes []string) (map[string]bool, error)

	// SearchSimilar returns the closest chunks to the query vector,
	// restricted to the given document titles. An empty title set
	// searches the whole index. Results are in ascending distance
	// order; ties are broken by insertion order, earliest first.
	SearchSimilar(ctx context.Context, vector []float32, titles []string, limit int) ([]types.ScoredChunk, error)
}

// JobStore persists the filename -> upload job mapping. Load and Save
// serialize against each other; callers doing read-modify-write must
// go through Update so the whole sequence holds the store's guard.
type JobStore interface {
	Load() (map[string]types.UploadJob, error)
	Save(jobs map[string]types.UploadJob) error
	Update(mutate func(jobs map[string]types.UploadJob) error) error
}

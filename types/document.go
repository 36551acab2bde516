package types

import "time"

// Chunk is the unit stored in the retrieval index: a bounded span of
// protocol text plus the fingerprint used for dedup and the title of
// the source document it came from.
type Chunk struct {
	Content       string `json:"content"`
	ContentHash   string `json:"content_hash"`
	DocumentTitle string `json:"document_title"`
	SequenceIndex int    `json:"sequence_index"`
	CreatedAt     int64  `json:"created_at"`
}

// ScoredChunk is a chunk returned from a similarity search together
// with its distance to the query vector (smaller is closer).
type ScoredChunk struct {
	Chunk
	Distance float32 `json:"distance"`
}

// ChunkerConfig contains configuration options for splitting document
// text into overlapping chunks. Sizes are in tokens, not bytes.
type ChunkerConfig struct {
	MaxChunkTokens int
	OverlapTokens  int
}

func NewChunk(content, documentTitle string, sequenceIndex int, hash string) Chunk {
	return Chunk{
		Content:       content,
		ContentHash:   hash,
		DocumentTitle: documentTitle,
		SequenceIndex: sequenceIndex,
		CreatedAt:     time.Now().UnixNano(),
	}
}

// IngestResult reports how one file's chunks were handled by ingestion.
type IngestResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

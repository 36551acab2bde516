package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// UploadResponse acknowledges a batch upload. Ingestion continues in
// the background; Accepted lists the filenames that were queued and
// Rejected the ones refused before any background work started.
type UploadResponse struct {
	Accepted []string          `json:"accepted"`
	Rejected map[string]string `json:"rejected,omitempty"`
}

// StatusResponse maps filename to its current upload job.
type StatusResponse struct {
	Jobs map[string]UploadJob `json:"jobs"`
}

// SearchResponse carries scoped retriever results.
type SearchResponse struct {
	Chunks []ScoredChunk `json:"chunks"`
}

// ReviseChunk is one cumulative update of a single section revision.
type ReviseChunk struct {
	Field   SectionID `json:"field"`
	Content string    `json:"content"`
	Done    bool      `json:"done"`
	Error   string    `json:"error,omitempty"`
}

package types

// GenerateRequest starts a generation session scoped to the given
// document titles. An empty list means the whole index.
type GenerateRequest struct {
	DocumentTitles []string `json:"document_titles"`
}

// ReviseRequest asks for one section to be rewritten according to a
// free-text instruction. Content is the section's current text.
type ReviseRequest struct {
	Field       string `json:"field"`
	Content     string `json:"content"`
	Instruction string `json:"instruction"`
}

// ExportRequest carries the complete set of section texts to render.
type ExportRequest struct {
	Title string            `json:"title"`
	Data  map[string]string `json:"data"`
}

// SearchRequest is the read path into the scoped retriever.
type SearchRequest struct {
	Query          string   `json:"query"`
	DocumentTitles []string `json:"document_titles,omitempty"`
	Limit          int      `json:"limit,omitempty"`
}

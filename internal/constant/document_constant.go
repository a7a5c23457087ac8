package constant

// DocumentStatus is the closed set of document lifecycle states.
// A document is terminal once Ready or Failed; no further transitions.
type DocumentStatus string

const (
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusReady      DocumentStatus = "ready"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// IsTerminal reports whether no further status transitions are permitted.
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusReady || s == DocumentStatusFailed
}

func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusProcessing, DocumentStatusReady, DocumentStatusFailed:
		return true
	}
	return false
}

const (
	// VectorIndexName is the similarity index on document_chunks.embedding.
	VectorIndexName = "document_chunks_embedding_idx"

	// EmbeddingTaskDocument / EmbeddingTaskQuery select the embedding task
	// type for providers that distinguish them (Ollama does not, Mistral
	// ignores it, Gemini-style providers use it).
	EmbeddingTaskDocument = "RETRIEVAL_DOCUMENT"
	EmbeddingTaskQuery    = "RETRIEVAL_QUERY"
)

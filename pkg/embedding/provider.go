package embedding

import "legal-research-be/pkg/store"

// Task types passed to dense providers that distinguish query vs passage
// embeddings.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// DenseProvider generates semantic (dense) embeddings.
type DenseProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}

// SparseProvider generates lexical (sparse) embeddings.
type SparseProvider interface {
	GenerateSparse(text string) (*store.SparseEmbedding, error)
}

package rerank

import (
	"context"

	"legal-research-be/pkg/store"
)

// Reranker scores an initial candidate set against the literal query text
// (second-pass, cross-encoder style) and returns the top documents in
// relevance order.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []store.Document, topK int) ([]store.Document, error)
}

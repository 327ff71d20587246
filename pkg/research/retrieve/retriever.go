package retrieve

import (
	"context"
	"log"
	"sync"

	"legal-research-be/pkg/rerank"
	"legal-research-be/pkg/store"
)

// Searcher is the document-store hybrid search boundary: one dense and one
// sparse vector in, fused candidates out.
type Searcher interface {
	HybridSearch(ctx context.Context, dense []float32, sparse *store.SparseEmbedding, topK int) ([]store.Document, error)
}

// Retriever performs hybrid retrieval plus reranking for every
// sub-question concurrently. The result slice is joined by index, so pair
// order always matches question order no matter which unit finishes first,
// and a failed unit degrades to an empty-documents pair without touching
// its siblings.
type Retriever struct {
	searcher Searcher
	ranker   rerank.Reranker
	logger   *log.Logger
}

func NewRetriever(searcher Searcher, ranker rerank.Reranker, logger *log.Logger) *Retriever {
	return &Retriever{
		searcher: searcher,
		ranker:   ranker,
		logger:   logger,
	}
}

// Retrieve returns one QuestionContext per sub-question, order preserved.
// dense and sparse must be positionally aligned with questions.
func (r *Retriever) Retrieve(
	ctx context.Context,
	questions store.QuestionSet,
	dense [][]float32,
	sparse []*store.SparseEmbedding,
	topK int,
) []store.QuestionContext {

	n := questions.Len()
	pairs := make([]store.QuestionContext, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			pairs[idx] = r.retrieveOne(ctx, questions.Questions[idx].Text, dense[idx], sparse[idx], topK)
		}(i)
	}
	wg.Wait()

	r.logger.Printf("[RETRIEVE] Completed retrieval for %d queries", n)
	return pairs
}

func (r *Retriever) retrieveOne(
	ctx context.Context,
	question string,
	dense []float32,
	sparse *store.SparseEmbedding,
	topK int,
) (pair store.QuestionContext) {

	pair = store.QuestionContext{Question: question, Documents: []store.Document{}}

	// A misbehaving backend must not take down sibling units.
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Printf("[ERROR] Retrieval unit panicked for %q: %v", truncate(question, 50), rec)
			pair.Documents = []store.Document{}
		}
	}()

	candidates, err := r.searcher.HybridSearch(ctx, dense, sparse, topK)
	if err != nil {
		r.logger.Printf("[ERROR] Hybrid search failed for %q: %v", truncate(question, 50), err)
		return pair
	}

	if len(candidates) == 0 {
		r.logger.Printf("[RETRIEVE] No candidates for %q", truncate(question, 50))
		return pair
	}

	ranked, err := r.ranker.Rerank(ctx, question, candidates, topK)
	if err != nil {
		// Degrade gracefully: keep the pre-rerank candidate order.
		r.logger.Printf("[WARN] Reranking failed for %q, keeping retrieval order: %v", truncate(question, 50), err)
		ranked = candidates
	}

	pair.Documents = FormatDocuments(ranked)
	return pair
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

package embedder

import (
	"log"
	"sync"

	"legal-research-be/pkg/embedding"
	"legal-research-be/pkg/store"
)

// DualEmbedder converts a QuestionSet into two positionally aligned vector
// lists: dense (semantic) and sparse (lexical). Both kinds run concurrently
// with each other, and each kind fans out per question. A kind is
// all-or-nothing: any per-question failure empties that kind's list so the
// orchestrator can skip retrieval instead of indexing out of range.
type DualEmbedder struct {
	dense  embedding.DenseProvider
	sparse embedding.SparseProvider
	logger *log.Logger
}

func NewDualEmbedder(dense embedding.DenseProvider, sparse embedding.SparseProvider, logger *log.Logger) *DualEmbedder {
	return &DualEmbedder{
		dense:  dense,
		sparse: sparse,
		logger: logger,
	}
}

// Embed returns (dense, sparse) lists where index i corresponds to
// questions.Questions[i]. A failed kind comes back as a nil slice.
func (e *DualEmbedder) Embed(questions store.QuestionSet) ([][]float32, []*store.SparseEmbedding) {
	var (
		wg     sync.WaitGroup
		dense  [][]float32
		sparse []*store.SparseEmbedding
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		dense = e.embedDense(questions)
	}()
	go func() {
		defer wg.Done()
		sparse = e.embedSparse(questions)
	}()
	wg.Wait()

	return dense, sparse
}

func (e *DualEmbedder) embedDense(questions store.QuestionSet) [][]float32 {
	n := questions.Len()
	results := make([][]float32, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := range questions.Questions {
		wg.Add(1)
		go func(idx int, text string) {
			defer wg.Done()
			resp, err := e.dense.Generate(text, embedding.TaskRetrievalQuery)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx] = resp.Embedding.Values
		}(i, questions.Questions[i].Text)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			e.logger.Printf("[ERROR] Dense embedding failed for question %d: %v", i+1, err)
			return nil
		}
	}

	e.logger.Printf("[EMBED] Generated %d dense embeddings", n)
	return results
}

func (e *DualEmbedder) embedSparse(questions store.QuestionSet) []*store.SparseEmbedding {
	n := questions.Len()
	results := make([]*store.SparseEmbedding, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := range questions.Questions {
		wg.Add(1)
		go func(idx int, text string) {
			defer wg.Done()
			emb, err := e.sparse.GenerateSparse(text)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx] = emb
		}(i, questions.Questions[i].Text)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			e.logger.Printf("[ERROR] Sparse embedding failed for question %d: %v", i+1, err)
			return nil
		}
	}

	e.logger.Printf("[EMBED] Generated %d sparse embeddings", n)
	return results
}

package executor

import (
	"context"
	"fmt"
	"log"
	"time"

	"legal-research-be/pkg/cache"
	"legal-research-be/pkg/research/decompose"
	"legal-research-be/pkg/research/resolve"
	"legal-research-be/pkg/research/retrieve"
	"legal-research-be/pkg/research/synthesize"
	"legal-research-be/pkg/research/validate"
	"legal-research-be/pkg/store"
)

// Embedder is the dual-embedding boundary the pipeline depends on.
type Embedder interface {
	Embed(questions store.QuestionSet) ([][]float32, []*store.SparseEmbedding)
}

// Pipeline orchestrates the full research flow:
// cache lookup -> decompose -> validate -> embed -> retrieve -> resolve ->
// synthesize -> cache store. Every stage degrades rather than aborts; the
// only way out is a well-formed PipelineResult.
type Pipeline struct {
	decomposer  *decompose.Decomposer
	validator   *validate.Validator
	embedder    Embedder
	retriever   *retrieve.Retriever
	resolver    *resolve.Resolver
	synthesizer *synthesize.Synthesizer
	results     *cache.ResultCache
	topK        int
	logger      *log.Logger
}

func NewPipeline(
	decomposer *decompose.Decomposer,
	validator *validate.Validator,
	embedder Embedder,
	retriever *retrieve.Retriever,
	resolver *resolve.Resolver,
	synthesizer *synthesize.Synthesizer,
	results *cache.ResultCache,
	topK int,
	logger *log.Logger,
) *Pipeline {
	return &Pipeline{
		decomposer:  decomposer,
		validator:   validator,
		embedder:    embedder,
		retriever:   retriever,
		resolver:    resolver,
		synthesizer: synthesizer,
		results:     results,
		topK:        topK,
		logger:      logger,
	}
}

// Execute runs the pipeline for one question. It never returns an error:
// failures surface inside the result (fallback answer, Error field), so
// callers always receive the full result shape.
func (p *Pipeline) Execute(ctx context.Context, question string) (result *store.PipelineResult) {
	started := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Printf("[ERROR] Pipeline panicked: %v", rec)
			result = &store.PipelineResult{
				Answer:           fmt.Sprintf("An error occurred while processing your question: %v", rec),
				SubQuestions:     store.QuestionSet{Questions: []store.Question{}},
				DocumentMetadata: []store.DocumentMeta{},
				ProcessingTime:   time.Since(started).Seconds(),
				CacheHit:         false,
				Error:            fmt.Sprintf("%v", rec),
			}
		}
	}()

	if cached := p.results.Get(ctx, question); cached != nil {
		p.logger.Printf("[PIPELINE] Cache hit for %q", truncate(question, 50))
		return cached
	}

	decomposed := p.decomposer.Decompose(ctx, question)
	validated := p.validator.Validate(decomposed, question)

	pairs := p.retrievalPairs(ctx, validated)

	resolved := p.resolver.Resolve(ctx, question, pairs)
	if resolved.Len() == 0 {
		// Resolution produced nothing usable; synthesize from the
		// unanswered questions rather than dropping them.
		resolved = validated
	}

	answer := p.synthesizer.Synthesize(ctx, question, resolved)

	result = &store.PipelineResult{
		Answer:           answer,
		SubQuestions:     resolved,
		DocumentMetadata: extractDocumentMetadata(pairs),
		ProcessingTime:   time.Since(started).Seconds(),
		CacheHit:         false,
	}

	p.results.Put(ctx, question, result)
	p.logger.Printf("[PIPELINE] Completed in %.2fs (%d sub-questions, %d documents)",
		result.ProcessingTime, result.SubQuestions.Len(), len(result.DocumentMetadata))
	return result
}

// retrievalPairs embeds the questions and runs hybrid retrieval. If either
// embedding kind failed or came back misaligned, retrieval is skipped and
// every question gets an empty document list: the pipeline still answers,
// just without corpus grounding.
func (p *Pipeline) retrievalPairs(ctx context.Context, questions store.QuestionSet) []store.QuestionContext {
	dense, sparse := p.embedder.Embed(questions)

	n := questions.Len()
	if len(dense) != n || len(sparse) != n {
		p.logger.Printf("[WARN] Embedding incomplete (dense=%d sparse=%d want=%d), skipping retrieval",
			len(dense), len(sparse), n)
		pairs := make([]store.QuestionContext, n)
		for i, q := range questions.Questions {
			pairs[i] = store.QuestionContext{Question: q.Text, Documents: []store.Document{}}
		}
		return pairs
	}

	return p.retriever.Retrieve(ctx, questions, dense, sparse, p.topK)
}

// extractDocumentMetadata flattens the top documents of every pair into the
// caller-facing summary list. At most three documents per sub-question; the
// score is a synthetic display ordinal (1.0, 0.9, 0.8), not a relevance
// measure.
func extractDocumentMetadata(pairs []store.QuestionContext) []store.DocumentMeta {
	metadata := make([]store.DocumentMeta, 0, len(pairs)*3)
	counter := 0

	for _, pair := range pairs {
		docs := pair.Documents
		if len(docs) > 3 {
			docs = docs[:3]
		}
		for i, doc := range docs {
			counter++
			meta := store.DocumentMeta{
				ID:    fmt.Sprintf("doc-%d", counter),
				Score: 1.0 - 0.1*float64(i),
			}

			if v, ok := doc.Meta["document_id"].(string); ok && v != "" {
				meta.DocumentID = v
			} else {
				meta.DocumentID = fmt.Sprintf("unknown-%d", counter)
			}

			titled := false
			if v, ok := doc.Meta["case_title"].(string); ok && v != "" {
				meta.CaseTitle = v
				titled = true
			} else if v, ok := doc.Meta["article_title"].(string); ok && v != "" {
				meta.ArticleTitle = v
				titled = true
			} else if v, ok := doc.Meta["legislation_title"].(string); ok && v != "" {
				meta.LegislationTitle = v
				titled = true
			}
			if !titled {
				prefix := pair.Question
				if len(prefix) > 30 {
					prefix = prefix[:30]
				}
				// The ellipsis is part of the placeholder format, even
				// for questions shorter than the prefix.
				meta.CaseTitle = "Result for: " + prefix + "..."
			}

			metadata = append(metadata, meta)
		}
	}

	return metadata
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

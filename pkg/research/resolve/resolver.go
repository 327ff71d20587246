package resolve

import (
	"context"
	"log"

	"legal-research-be/pkg/llm"
	"legal-research-be/pkg/research/prompt"
	"legal-research-be/pkg/research/structured"
	"legal-research-be/pkg/store"
)

// Resolver answers each sub-question strictly from its retrieved
// documents via a structured generation call. It shares the decomposer's
// permissive-extraction and empty-on-failure policy.
type Resolver struct {
	generator *structured.Generator
	logger    *log.Logger
}

func NewResolver(provider llm.LLMProvider, logger *log.Logger) *Resolver {
	return &Resolver{
		generator: structured.NewGenerator(provider, logger),
		logger:    logger,
	}
}

// Resolve returns a QuestionSet with answers attached per sub-question.
// An empty set means resolution failed; the orchestrator falls back to the
// validated (unanswered) questions.
func (r *Resolver) Resolve(ctx context.Context, originalQuestion string, pairs []store.QuestionContext) store.QuestionSet {
	qs := r.generator.GenerateQuestionSet(ctx, prompt.Answering(originalQuestion, pairs))
	r.logger.Printf("[RESOLVE] Resolved %d sub-questions", qs.Len())
	return qs
}

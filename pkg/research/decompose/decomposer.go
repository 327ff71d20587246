package decompose

import (
	"context"
	"log"

	"legal-research-be/pkg/llm"
	"legal-research-be/pkg/research/prompt"
	"legal-research-be/pkg/research/structured"
	"legal-research-be/pkg/store"
)

// Decomposer turns one natural-language legal question into a QuestionSet
// of sub-questions via a structured generation call. Failures are absorbed
// into an empty set; the validator is the authoritative fallback layer.
type Decomposer struct {
	generator *structured.Generator
	logger    *log.Logger
}

func NewDecomposer(provider llm.LLMProvider, logger *log.Logger) *Decomposer {
	return &Decomposer{
		generator: structured.NewGenerator(provider, logger),
		logger:    logger,
	}
}

// Decompose splits the question into sub-questions. Answers must stay nil
// at this stage; anything the model volunteers is stripped.
func (d *Decomposer) Decompose(ctx context.Context, question string) store.QuestionSet {
	qs := d.generator.GenerateQuestionSet(ctx, prompt.Decomposition(question))

	// Decomposition produces questions only, never answers.
	for i := range qs.Questions {
		qs.Questions[i].Answer = nil
	}

	d.logger.Printf("[DECOMPOSE] Produced %d sub-questions", qs.Len())
	return qs
}

package synthesize

import (
	"context"
	"log"

	"legal-research-be/pkg/llm"
	"legal-research-be/pkg/research/prompt"
	"legal-research-be/pkg/store"
)

// FallbackAnswer is returned whenever synthesis fails; callers communicate
// "no answer" through content, never through an error.
const FallbackAnswer = "No answer generated"

// Synthesizer produces the final reasoned analysis from the resolved
// sub-questions via a free-text generation call.
type Synthesizer struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewSynthesizer(provider llm.LLMProvider, logger *log.Logger) *Synthesizer {
	return &Synthesizer{
		provider: provider,
		logger:   logger,
	}
}

// Synthesize returns the final answer text, or FallbackAnswer on any
// generation failure.
func (s *Synthesizer) Synthesize(ctx context.Context, originalQuestion string, resolved store.QuestionSet) string {
	answer, err := s.provider.Generate(ctx, prompt.Reasoning(originalQuestion, resolved))
	if err != nil {
		s.logger.Printf("[ERROR] Reasoning generation failed: %v", err)
		return FallbackAnswer
	}
	if answer == "" {
		return FallbackAnswer
	}
	return answer
}

package validate

import (
	"log"

	"legal-research-be/pkg/store"
)

// Validator guarantees the pipeline never proceeds with zero sub-questions.
// Whatever shape the decomposer handed over is coerced first; an absent or
// empty result is replaced by the original question as a single-element
// fallback.
type Validator struct {
	logger *log.Logger
}

func NewValidator(logger *log.Logger) *Validator {
	return &Validator{logger: logger}
}

// Validate returns a QuestionSet with at least one question.
func (v *Validator) Validate(result interface{}, originalQuestion string) store.QuestionSet {
	qs := store.CoerceQuestionSet(result)

	if qs.Len() == 0 {
		v.logger.Printf("[VALIDATE] Decomposition failed, using original question as fallback: %s", originalQuestion)
		return store.QuestionSet{
			Questions: []store.Question{{Text: originalQuestion}},
		}
	}

	v.logger.Printf("[VALIDATE] Valid decomposition with %d sub-questions", qs.Len())
	return qs
}

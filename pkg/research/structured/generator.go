package structured

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"legal-research-be/pkg/llm"
	"legal-research-be/pkg/store"
)

// questionSetSchema is the JSON schema appended to structured prompts.
// Kept as a literal because the shape never changes at runtime.
const questionSetSchema = `{
  "type": "object",
  "properties": {
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "question": {"type": "string"},
          "answer": {"type": ["string", "null"]}
        },
        "required": ["question"]
      }
    }
  },
  "required": ["questions"]
}`

// Generator wraps an LLM provider with structured-output support for
// QuestionSet replies. Generation backends wrap JSON in prose despite
// instructions, so parsing is deliberately permissive: take the substring
// between the first '{' and the last '}', and fall back to the whole reply
// when no braces are found. Any failure yields an empty QuestionSet -
// never an error - because the validator downstream owns the fallback.
type Generator struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewGenerator(provider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		provider: provider,
		logger:   logger,
	}
}

// GenerateQuestionSet runs a structured generation call and coerces the
// reply into a QuestionSet.
func (g *Generator) GenerateQuestionSet(ctx context.Context, prompt string) store.QuestionSet {
	structuredPrompt := prompt +
		"\n\nIMPORTANT: Format your response as a valid JSON object following this schema:\n" +
		questionSetSchema +
		"\n\nReturn only the JSON object without any additional text.\n"

	reply, err := g.provider.Generate(ctx, structuredPrompt, llm.WithTemperature(0.0))
	if err != nil {
		g.logger.Printf("[ERROR] Structured generation failed: %v", err)
		return store.QuestionSet{}
	}

	return g.parseReply(reply)
}

// GenerateText runs a plain free-text generation call.
func (g *Generator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.provider.Generate(ctx, prompt)
}

func (g *Generator) parseReply(reply string) store.QuestionSet {
	raw := ExtractJSON(reply)
	if raw == "" {
		g.logger.Printf("[WARN] No JSON delimiters in reply, attempting to parse entire response")
		raw = reply
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		g.logger.Printf("[ERROR] Failed to parse structured output: %v. Reply was: %s", err, truncate(reply, 200))
		return store.QuestionSet{}
	}

	qs := store.CoerceQuestionSet(decoded)
	if qs.Len() == 0 {
		g.logger.Printf("[WARN] Structured reply coerced to empty question set")
	}
	return qs
}

// ExtractJSON returns the substring between the first '{' and the last '}'
// of a reply, or "" when no such pair exists.
func ExtractJSON(reply string) string {
	startIdx := strings.Index(reply, "{")
	endIdx := strings.LastIndex(reply, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return reply[startIdx : endIdx+1]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

package factory

import (
	"fmt"

	"legal-research-be/pkg/llm"
	"legal-research-be/pkg/llm/cohere"
	"legal-research-be/pkg/llm/huggingface"
	"legal-research-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, cohereKey, huggingFaceKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "cohere":
		if cohereKey == "" {
			return nil, fmt.Errorf("cohere provider requires COHERE_API_KEY")
		}
		return cohere.NewCohereProvider(cohereKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(huggingFaceKey, "", modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}

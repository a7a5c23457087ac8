package factory

import (
	"fmt"

	"pdf-rag-be/pkg/llm"
	"pdf-rag-be/pkg/llm/mistral"
	"pdf-rag-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, apiKey, modelName, baseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "mistral":
		return mistral.NewMistralProvider(apiKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}

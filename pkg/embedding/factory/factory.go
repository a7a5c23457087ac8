package factory

import (
	"fmt"

	"pdf-rag-be/pkg/embedding"
	"pdf-rag-be/pkg/embedding/mistral"
	"pdf-rag-be/pkg/embedding/ollama"
)

func NewEmbeddingProvider(providerType, apiKey, modelName, baseURL string, dimension int) (embedding.Provider, error) {
	switch providerType {
	case "mistral":
		return mistral.NewProvider(apiKey, modelName, dimension), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewProvider(baseURL, modelName, dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", providerType)
	}
}

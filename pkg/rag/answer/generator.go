package answer

import (
	"context"
	"fmt"
	"strings"

	"pdf-rag-be/internal/repository/contract"
	"pdf-rag-be/pkg/llm"
)

// Generator turns retrieved chunks and a question into a grounded answer.
type Generator struct {
	provider  llm.LLMProvider
	maxTokens int
}

func NewGenerator(provider llm.LLMProvider, maxTokens int) *Generator {
	return &Generator{
		provider:  provider,
		maxTokens: maxTokens,
	}
}

// BuildPrompt assembles the grounding prompt. The instruction pins the
// model to the retrieved context; an empty context still goes through so
// the model can say it has nothing to work with.
func BuildPrompt(query string, scored []*contract.ScoredDocumentChunk) string {
	parts := make([]string, len(scored))
	for i, sc := range scored {
		parts[i] = sc.Chunk.Content
	}
	grounding := strings.Join(parts, "\n\n")

	return fmt.Sprintf(
		"Context:\n%s\n\nQuestion: %s\nAnswer the question based only on the provided context.",
		grounding, query,
	)
}

// Answer produces the complete answer in one call.
func (g *Generator) Answer(ctx context.Context, query string, scored []*contract.ScoredDocumentChunk) (string, error) {
	return g.provider.Generate(ctx, BuildPrompt(query, scored), llm.WithMaxTokens(g.maxTokens))
}

// StreamAnswer produces the answer incrementally.
func (g *Generator) StreamAnswer(ctx context.Context, query string, scored []*contract.ScoredDocumentChunk) (<-chan llm.StreamDelta, error) {
	history := []llm.Message{{Role: "user", Content: BuildPrompt(query, scored)}}
	return g.provider.Stream(ctx, history, llm.WithMaxTokens(g.maxTokens))
}

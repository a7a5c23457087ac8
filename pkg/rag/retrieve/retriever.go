package retrieve

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"pdf-rag-be/internal/constant"
	"pdf-rag-be/internal/pkg/apperrors"
	"pdf-rag-be/internal/repository/contract"
	"pdf-rag-be/internal/repository/unitofwork"
	"pdf-rag-be/pkg/embedding"
)

// Retriever embeds a query and runs the scoped similarity search.
type Retriever struct {
	embeddingProvider embedding.Provider
	embeddingModel    string
	cache             *EmbeddingCache
	logger            *log.Logger
}

// NewRetriever creates a retriever. cache may be nil.
func NewRetriever(provider embedding.Provider, embeddingModel string, cache *EmbeddingCache, logger *log.Logger) *Retriever {
	return &Retriever{
		embeddingProvider: provider,
		embeddingModel:    embeddingModel,
		cache:             cache,
		logger:            logger,
	}
}

// Config encapsulates search parameters
type Config struct {
	TopK          int
	CandidatePool int
}

// DefaultConfig returns default search configuration
func DefaultConfig() Config {
	return Config{
		TopK:          5,
		CandidatePool: 100,
	}
}

// Retrieve returns the top chunks of one document ranked by similarity to
// the query. A nil userId skips the ownership filter (internal callers
// only); request paths always pass the owner.
func (r *Retriever) Retrieve(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	documentId uuid.UUID,
	userId *uuid.UUID,
	query string,
	config Config,
) ([]*contract.ScoredDocumentChunk, error) {

	vector, cached := r.cache.Get(ctx, r.embeddingModel, query)
	if !cached {
		vectors, err := r.embeddingProvider.Generate(ctx, []string{query}, constant.EmbeddingTaskQuery)
		if err != nil {
			return nil, apperrors.Upstream("embedding generation failed", err)
		}
		if len(vectors) != 1 {
			return nil, fmt.Errorf("expected 1 query embedding, got %d", len(vectors))
		}
		vector = vectors[0]
		r.cache.Set(ctx, r.embeddingModel, query, vector)
	}

	scored, err := uow.DocumentChunkRepository().SearchSimilar(
		ctx,
		vector,
		documentId,
		userId,
		config.TopK,
		config.CandidatePool,
	)
	if err != nil {
		r.logger.Printf("[ERROR] Vector search failed: %v", err)
		return nil, err
	}

	r.logger.Printf("[DEBUG] Retrieved %d chunks for document %s", len(scored), documentId)

	return scored, nil
}

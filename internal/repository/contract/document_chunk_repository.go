package contract

import (
	"context"

	"github.com/google/uuid"

	"pdf-rag-be/internal/entity"
	"pdf-rag-be/internal/repository/specification"
)

// ScoredDocumentChunk pairs a chunk with its cosine similarity to a query.
type ScoredDocumentChunk struct {
	Chunk      *entity.DocumentChunk
	Similarity float64
}

// BulkInsertResult reports the outcome of an unordered bulk insert. Failed
// rows never block their siblings from committing.
type BulkInsertResult struct {
	Inserted int
	Failed   int
	Errors   []error
}

type DocumentChunkRepository interface {
	CreateBulkUnordered(ctx context.Context, chunks []*entity.DocumentChunk) (*BulkInsertResult, error)
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchSimilar runs approximate nearest-neighbor search over a candidate
	// pool, then filters to the document (and owner when non-nil), keeping
	// the top limit rows by cosine similarity.
	SearchSimilar(ctx context.Context, embedding []float32, documentId uuid.UUID, userId *uuid.UUID, limit, candidatePool int) ([]*ScoredDocumentChunk, error)

	// EnsureVectorIndex idempotently creates the similarity index. A
	// concurrent creation racing this call is success, not failure.
	EnsureVectorIndex(ctx context.Context) error
}

package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"pdf-rag-be/internal/entity"
	"pdf-rag-be/internal/repository/contract"
	"pdf-rag-be/internal/repository/specification"
)

// DocumentChunkRepository is a map-backed chunk store. SearchSimilar
// computes exact cosine similarity, which makes it a reference oracle for
// the approximate SQL search.
type DocumentChunkRepository struct {
	mu     sync.RWMutex
	chunks map[uuid.UUID]*entity.DocumentChunk
}

func NewDocumentChunkRepository() contract.DocumentChunkRepository {
	return &DocumentChunkRepository{
		chunks: make(map[uuid.UUID]*entity.DocumentChunk),
	}
}

func chunkMatches(c *entity.DocumentChunk, spec specification.Specification) bool {
	switch s := spec.(type) {
	case specification.ByID:
		return c.Id == s.ID
	case specification.ByDocumentID:
		return c.DocumentId == s.DocumentID
	case specification.UserOwnedBy:
		return c.UserId == s.UserID
	default:
		return true
	}
}

func (r *DocumentChunkRepository) filter(specs ...specification.Specification) []*entity.DocumentChunk {
	var out []*entity.DocumentChunk
	for _, c := range r.chunks {
		ok := true
		for _, spec := range specs {
			if !chunkMatches(c, spec) {
				ok = false
				break
			}
		}
		if ok {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out
}

func (r *DocumentChunkRepository) CreateBulkUnordered(ctx context.Context, chunks []*entity.DocumentChunk) (*contract.BulkInsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := &contract.BulkInsertResult{}
	for _, chunk := range chunks {
		if chunk.Id == uuid.Nil {
			chunk.Id = uuid.New()
		}
		if chunk.CreatedAt.IsZero() {
			chunk.CreatedAt = time.Now()
		}
		copied := *chunk
		r.chunks[chunk.Id] = &copied
		result.Inserted++
	}
	return result, nil
}

func (r *DocumentChunkRepository) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.chunks {
		if c.DocumentId == documentId {
			delete(r.chunks, id)
		}
	}
	return nil
}

func (r *DocumentChunkRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(specs...), nil
}

func (r *DocumentChunkRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.filter(specs...))), nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func (r *DocumentChunkRepository) SearchSimilar(ctx context.Context, embedding []float32, documentId uuid.UUID, userId *uuid.UUID, limit, candidatePool int) ([]*contract.ScoredDocumentChunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Pool first, filter second, same shape as the index-backed search.
	var pool []*contract.ScoredDocumentChunk
	for _, c := range r.chunks {
		copied := *c
		pool = append(pool, &contract.ScoredDocumentChunk{
			Chunk:      &copied,
			Similarity: cosineSimilarity(embedding, c.Embedding),
		})
	}
	sort.Slice(pool, func(i, j int) bool {
		return pool[i].Similarity > pool[j].Similarity
	})
	if len(pool) > candidatePool {
		pool = pool[:candidatePool]
	}

	var scored []*contract.ScoredDocumentChunk
	for _, sc := range pool {
		if sc.Chunk.DocumentId != documentId {
			continue
		}
		if userId != nil && sc.Chunk.UserId != *userId {
			continue
		}
		scored = append(scored, sc)
		if len(scored) == limit {
			break
		}
	}
	return scored, nil
}

func (r *DocumentChunkRepository) EnsureVectorIndex(ctx context.Context) error {
	return nil
}

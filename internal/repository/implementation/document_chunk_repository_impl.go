package implementation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"pdf-rag-be/internal/constant"
	"pdf-rag-be/internal/entity"
	"pdf-rag-be/internal/mapper"
	"pdf-rag-be/internal/model"
	"pdf-rag-be/internal/repository/contract"
	"pdf-rag-be/internal/repository/specification"
)

type DocumentChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentChunkMapper
}

func NewDocumentChunkRepository(db *gorm.DB) contract.DocumentChunkRepository {
	return &DocumentChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentChunkMapper(),
	}
}

func (r *DocumentChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// CreateBulkUnordered inserts each chunk independently so that one bad row
// does not roll back its siblings. The caller decides what a partial result
// means for the owning document.
func (r *DocumentChunkRepositoryImpl) CreateBulkUnordered(ctx context.Context, chunks []*entity.DocumentChunk) (*contract.BulkInsertResult, error) {
	result := &contract.BulkInsertResult{}

	for _, chunk := range chunks {
		m := r.mapper.ToModel(chunk)
		if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Errorf("chunk %d (page %v): %w", result.Inserted+result.Failed, chunk.Metadata.Page, err))
			continue
		}
		chunk.Id = m.Id
		chunk.CreatedAt = m.CreatedAt
		result.Inserted++
	}

	return result, nil
}

func (r *DocumentChunkRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("document_id = ?", documentId).
		Delete(&model.DocumentChunk{}).Error
}

func (r *DocumentChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error) {
	var models []*model.DocumentChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DocumentChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.DocumentChunk{}).Count(&count).Error
	return count, err
}

type scoredChunkRow struct {
	model.DocumentChunk
	Similarity float64
}

// SearchSimilar fetches a candidate pool ordered by vector distance first,
// then filters by document (and owner) and keeps the top rows by similarity.
// Filtering after the ANN scan mirrors how the index is actually used: the
// pool bounds the scan, the WHERE clause scopes the result.
func (r *DocumentChunkRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, documentId uuid.UUID, userId *uuid.UUID, limit, candidatePool int) ([]*contract.ScoredDocumentChunk, error) {
	queryVector := pgvector.NewVector(embedding)

	query := `SELECT c.*, 1 - (c.embedding <=> ?) AS similarity
FROM (
	SELECT * FROM document_chunks ORDER BY embedding <=> ? LIMIT ?
) c
WHERE c.document_id = ?`
	args := []interface{}{queryVector, queryVector, candidatePool, documentId}

	if userId != nil {
		query += " AND c.user_id = ?"
		args = append(args, *userId)
	}

	query += " ORDER BY similarity DESC LIMIT ?"
	args = append(args, limit)

	var rows []scoredChunkRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredDocumentChunk, len(rows))
	for i, row := range rows {
		scored[i] = &contract.ScoredDocumentChunk{
			Chunk:      r.mapper.ToEntity(&row.DocumentChunk),
			Similarity: row.Similarity,
		}
	}
	return scored, nil
}

func (r *DocumentChunkRepositoryImpl) EnsureVectorIndex(ctx context.Context) error {
	var count int64
	err := r.db.WithContext(ctx).
		Table("pg_indexes").
		Where("indexname = ?", constant.VectorIndexName).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	createSQL := fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s ON document_chunks USING hnsw (embedding vector_cosine_ops)",
		constant.VectorIndexName,
	)
	if err := r.db.WithContext(ctx).Exec(createSQL).Error; err != nil {
		// Another process may have won the race between the check and the
		// create. Duplicate-object errors mean the index exists.
		if strings.Contains(err.Error(), "42P07") || strings.Contains(err.Error(), "already exists") {
			return nil
		}
		return err
	}
	return nil
}

package contract

import (
	"context"

	"github.com/google/uuid"

	"pdf-rag-be/internal/entity"
	"pdf-rag-be/internal/repository/specification"
)

type DocumentImageRepository interface {
	CreateBulk(ctx context.Context, images []*entity.DocumentImage) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentImage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentImage, error)
}

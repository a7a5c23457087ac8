package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pdf-rag-be/internal/entity"
	"pdf-rag-be/internal/mapper"
	"pdf-rag-be/internal/model"
	"pdf-rag-be/internal/repository/contract"
	"pdf-rag-be/internal/repository/specification"
)

type DocumentImageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentImageMapper
}

func NewDocumentImageRepository(db *gorm.DB) contract.DocumentImageRepository {
	return &DocumentImageRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentImageMapper(),
	}
}

func (r *DocumentImageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DocumentImageRepositoryImpl) CreateBulk(ctx context.Context, images []*entity.DocumentImage) error {
	if len(images) == 0 {
		return nil
	}
	models := r.mapper.ToModels(images)
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		images[i].Id = m.Id
		images[i].CreatedAt = m.CreatedAt
	}
	return nil
}

func (r *DocumentImageRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("document_id = ?", documentId).
		Delete(&model.DocumentImage{}).Error
}

func (r *DocumentImageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentImage, error) {
	var m model.DocumentImage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DocumentImageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentImage, error) {
	var models []*model.DocumentImage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

package mapper

import (
	"pdf-rag-be/internal/constant"
	"pdf-rag-be/internal/entity"
	"pdf-rag-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	return &entity.Document{
		Id:               d.Id,
		UserId:           d.UserId,
		Name:             d.Name,
		OriginalFilename: d.OriginalFilename,
		Link:             d.Link,
		Status:           constant.DocumentStatus(d.Status),
		ChunkCount:       d.ChunkCount,
		PageCount:        d.PageCount,
		ImageCount:       d.ImageCount,
		Error:            d.Error,
		UploadedAt:       d.UploadedAt,
		ProcessedAt:      d.ProcessedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	return &model.Document{
		Id:               d.Id,
		UserId:           d.UserId,
		Name:             d.Name,
		OriginalFilename: d.OriginalFilename,
		Link:             d.Link,
		Status:           string(d.Status),
		ChunkCount:       d.ChunkCount,
		PageCount:        d.PageCount,
		ImageCount:       d.ImageCount,
		Error:            d.Error,
		UploadedAt:       d.UploadedAt,
		ProcessedAt:      d.ProcessedAt,
	}
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

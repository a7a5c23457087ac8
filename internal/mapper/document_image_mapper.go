package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"pdf-rag-be/internal/entity"
	"pdf-rag-be/internal/model"
)

type DocumentImageMapper struct{}

func NewDocumentImageMapper() *DocumentImageMapper {
	return &DocumentImageMapper{}
}

func (m *DocumentImageMapper) ToEntity(img *model.DocumentImage) *entity.DocumentImage {
	if img == nil {
		return nil
	}

	var position entity.ImageBox
	_ = json.Unmarshal(img.Position, &position)

	var pagePosition entity.PagePosition
	_ = json.Unmarshal(img.PagePosition, &pagePosition)

	var pageDimensions *entity.PageDimensions
	if len(img.PageDimensions) > 0 {
		var dims entity.PageDimensions
		if err := json.Unmarshal(img.PageDimensions, &dims); err == nil {
			pageDimensions = &dims
		}
	}

	return &entity.DocumentImage{
		Id:             img.Id,
		ImageId:        img.ImageId,
		DocumentId:     img.DocumentId,
		UserId:         img.UserId,
		PageNumber:     img.PageNumber,
		FileName:       img.FileName,
		Position:       position,
		PagePosition:   pagePosition,
		PageDimensions: pageDimensions,
		ImageData:      img.ImageData,
		CreatedAt:      img.CreatedAt,
	}
}

func (m *DocumentImageMapper) ToModel(img *entity.DocumentImage) *model.DocumentImage {
	if img == nil {
		return nil
	}

	positionJson, _ := json.Marshal(img.Position)
	pagePositionJson, _ := json.Marshal(img.PagePosition)

	var pageDimensionsJson []byte
	if img.PageDimensions != nil {
		pageDimensionsJson, _ = json.Marshal(img.PageDimensions)
	}

	return &model.DocumentImage{
		Id:             img.Id,
		ImageId:        img.ImageId,
		DocumentId:     img.DocumentId,
		UserId:         img.UserId,
		PageNumber:     img.PageNumber,
		FileName:       img.FileName,
		Position:       datatypes.JSON(positionJson),
		PagePosition:   datatypes.JSON(pagePositionJson),
		PageDimensions: datatypes.JSON(pageDimensionsJson),
		ImageData:      img.ImageData,
		CreatedAt:      img.CreatedAt,
	}
}

func (m *DocumentImageMapper) ToEntities(images []*model.DocumentImage) []*entity.DocumentImage {
	entities := make([]*entity.DocumentImage, len(images))
	for i, img := range images {
		entities[i] = m.ToEntity(img)
	}
	return entities
}

func (m *DocumentImageMapper) ToModels(images []*entity.DocumentImage) []*model.DocumentImage {
	models := make([]*model.DocumentImage, len(images))
	for i, img := range images {
		models[i] = m.ToModel(img)
	}
	return models
}

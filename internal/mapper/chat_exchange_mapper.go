package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"pdf-rag-be/internal/entity"
	"pdf-rag-be/internal/model"
)

type ChatExchangeMapper struct{}

func NewChatExchangeMapper() *ChatExchangeMapper {
	return &ChatExchangeMapper{}
}

func (m *ChatExchangeMapper) ToEntity(e *model.ChatExchange) *entity.ChatExchange {
	if e == nil {
		return nil
	}

	var citations []entity.Citation
	if len(e.Citations) > 0 {
		_ = json.Unmarshal(e.Citations, &citations)
	}

	return &entity.ChatExchange{
		Id:         e.Id,
		UserId:     e.UserId,
		DocumentId: e.DocumentId,
		Query:      e.Query,
		Answer:     e.Answer,
		Citations:  citations,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *ChatExchangeMapper) ToModel(e *entity.ChatExchange) *model.ChatExchange {
	if e == nil {
		return nil
	}

	citationsJson, _ := json.Marshal(e.Citations)

	return &model.ChatExchange{
		Id:         e.Id,
		UserId:     e.UserId,
		DocumentId: e.DocumentId,
		Query:      e.Query,
		Answer:     e.Answer,
		Citations:  datatypes.JSON(citationsJson),
		CreatedAt:  e.CreatedAt,
	}
}

func (m *ChatExchangeMapper) ToEntities(exchanges []*model.ChatExchange) []*entity.ChatExchange {
	entities := make([]*entity.ChatExchange, len(exchanges))
	for i, e := range exchanges {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

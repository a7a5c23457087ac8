package dto

import (
	"time"

	"github.com/google/uuid"

	"pdf-rag-be/internal/entity"
)

type ChatRequest struct {
	DocumentId uuid.UUID `json:"documentId" validate:"required"`
	Query      string    `json:"query" validate:"required"`
}

type ChatResponse struct {
	Answer    string            `json:"answer"`
	Citations []entity.Citation `json:"citations"`
}

type ChatHistoryItemResponse struct {
	Id        uuid.UUID         `json:"id"`
	Query     string            `json:"query"`
	Answer    string            `json:"answer"`
	Citations []entity.Citation `json:"citations"`
	CreatedAt time.Time         `json:"createdAt"`
}

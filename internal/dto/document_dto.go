package dto

import (
	"time"

	"github.com/google/uuid"

	"pdf-rag-be/internal/entity"
)

type UploadDocumentResponse struct {
	Id     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Status string    `json:"status"`
}

type DocumentResponse struct {
	Id               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	OriginalFilename string     `json:"originalFilename"`
	Status           string     `json:"status"`
	ChunkCount       int        `json:"chunkCount"`
	PageCount        int        `json:"pageCount"`
	ImageCount       int        `json:"imageCount"`
	Error            string     `json:"error,omitempty"`
	UploadedAt       time.Time  `json:"uploadedAt"`
	ProcessedAt      *time.Time `json:"processedAt,omitempty"`
}

type DocumentImageResponse struct {
	ImageId        string                 `json:"imageId"`
	DocumentId     uuid.UUID              `json:"documentId"`
	PageNumber     int                    `json:"pageNumber"`
	FileName       string                 `json:"fileName,omitempty"`
	Position       entity.ImageBox        `json:"position"`
	PagePosition   entity.PagePosition    `json:"pagePosition"`
	PageDimensions *entity.PageDimensions `json:"pageDimensions,omitempty"`
	ImageData      string                 `json:"imageData"`
}

// PublishIngestDocumentMessage is the queue payload that triggers the
// ingestion pipeline for one document.
type PublishIngestDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}

type ReprocessDocumentResponse struct {
	Id     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Status string    `json:"status"`
}

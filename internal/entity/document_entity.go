package entity

import (
	"time"

	"github.com/google/uuid"

	"pdf-rag-be/internal/constant"
)

// Document is the metadata/status record for one uploaded PDF.
// It is created at upload with status Processing and mutated only by the
// ingestion pipeline; Ready and Failed are terminal.
type Document struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	Name             string
	OriginalFilename string
	Link             string
	Status           constant.DocumentStatus
	ChunkCount       int
	PageCount        int
	ImageCount       int
	Error            string
	UploadedAt       time.Time
	ProcessedAt      *time.Time
}

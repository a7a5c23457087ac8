package entity

import (
	"time"

	"github.com/google/uuid"
)

// PageDimensions mirrors the OCR page geometry (pixels at the reported DPI).
type PageDimensions struct {
	DPI    int `json:"dpi,omitempty"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ChunkImageRef links a chunk to an image extracted from its page.
type ChunkImageRef struct {
	ImageId  string `json:"imageId"`
	FileName string `json:"fileName,omitempty"`
}

// ChunkMetadata carries the positional context every window inherits from
// its source page.
type ChunkMetadata struct {
	Page             int             `json:"page"`
	TotalPages       int             `json:"totalPages"`
	RelativePosition float64         `json:"relativePosition"`
	Source           string          `json:"source"`
	DocumentName     string          `json:"documentName"`
	Images           []ChunkImageRef `json:"images,omitempty"`
	Dimensions       *PageDimensions `json:"dimensions,omitempty"`
}

// DocumentChunk is one embedded text window. Immutable once written;
// produced only by the ingestion bulk insert.
type DocumentChunk struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	UserId     uuid.UUID
	Content    string
	Metadata   ChunkMetadata
	Embedding  []float32
	CreatedAt  time.Time
}

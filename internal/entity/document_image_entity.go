package entity

import (
	"time"

	"github.com/google/uuid"
)

type ImagePoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ImageBox is the bounding box the OCR reports for an extracted image.
type ImageBox struct {
	TopLeft     ImagePoint `json:"topLeft"`
	BottomRight ImagePoint `json:"bottomRight"`
}

// PagePosition locates the image relative to its page (0..1).
type PagePosition struct {
	RelativeTop  float64 `json:"relativeTop"`
	RelativeLeft float64 `json:"relativeLeft"`
}

// DocumentImage stores one image the OCR extracted from a page, including
// the raw base64 payload so clients can render cited figures.
type DocumentImage struct {
	Id             uuid.UUID
	ImageId        string // stable reference used by chunk metadata and citations
	DocumentId     uuid.UUID
	UserId         uuid.UUID
	PageNumber     int
	FileName       string
	Position       ImageBox
	PagePosition   PagePosition
	PageDimensions *PageDimensions
	ImageData      string
	CreatedAt      time.Time
}

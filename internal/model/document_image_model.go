package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type DocumentImage struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ImageId        string         `gorm:"type:varchar(128);not null;uniqueIndex"`
	DocumentId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	PageNumber     int            `gorm:"not null"`
	FileName       string         `gorm:"type:varchar(255)"`
	Position       datatypes.JSON `gorm:"type:jsonb"`
	PagePosition   datatypes.JSON `gorm:"type:jsonb"`
	PageDimensions datatypes.JSON `gorm:"type:jsonb"`
	ImageData      string         `gorm:"type:text"` // base64 payload from the OCR
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
}

func (DocumentImage) TableName() string {
	return "document_images"
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID `gorm:"type:uuid;not null;index"`
	Name             string    `gorm:"type:varchar(255);not null"`
	OriginalFilename string    `gorm:"type:varchar(255)"`
	Link             string    `gorm:"type:text"`
	Status           string    `gorm:"type:varchar(16);not null;index"`
	ChunkCount       int       `gorm:"default:0"`
	PageCount        int       `gorm:"default:0"`
	ImageCount       int       `gorm:"default:0"`
	Error            string    `gorm:"type:text"`
	UploadedAt       time.Time `gorm:"autoCreateTime"`
	ProcessedAt      *time.Time
}

func (Document) TableName() string {
	return "documents"
}

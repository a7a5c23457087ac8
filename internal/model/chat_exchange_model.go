package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatExchange struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	DocumentId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Query      string         `gorm:"type:text;not null"`
	Answer     string         `gorm:"type:text"`
	Citations  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index"`
}

func (ChatExchange) TableName() string {
	return "chat_exchanges"
}

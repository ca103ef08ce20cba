package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Message struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ThreadId  string         `gorm:"type:text;not null;index"` // thread external id, not row id
	Content   string         `gorm:"type:text;not null"`
	By        string         `gorm:"type:text;not null"` // "human" or a model identifier
	OwnerId   string         `gorm:"type:text;not null;index"`
	Files     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}

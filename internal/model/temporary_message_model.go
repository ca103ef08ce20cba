package model

import (
	"time"

	"github.com/google/uuid"
)

// TemporaryMessage never carries attachments; the files column exists only on
// the permanent table.
type TemporaryMessage struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ThreadId  string    `gorm:"type:text;not null;index"`
	Content   string    `gorm:"type:text;not null"`
	By        string    `gorm:"type:text;not null"`
	OwnerId   string    `gorm:"type:text;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (TemporaryMessage) TableName() string {
	return "temporary_messages"
}

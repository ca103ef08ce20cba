package model

import (
	"time"

	"github.com/google/uuid"
)

// TemporaryThread is the anonymous-track twin of Thread. Rows are moved to
// the permanent table when the owner authenticates.
type TemporaryThread struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ExternalId string    `gorm:"type:text;not null;uniqueIndex"`
	Title      string    `gorm:"type:text;not null"`
	IsPublic   bool      `gorm:"not null;default:false"`
	OwnerId    string    `gorm:"type:text;not null;index"` // anonymous client id
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (TemporaryThread) TableName() string {
	return "temporary_threads"
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type Thread struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ExternalId string    `gorm:"type:text;not null;uniqueIndex"` // client-generated identifier
	Title      string    `gorm:"type:text;not null"`
	IsPublic   bool      `gorm:"not null;default:false"`
	OwnerId    string    `gorm:"type:text;not null;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Thread) TableName() string {
	return "threads"
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultThreadTitle is the sentinel title assigned at creation; the deferred
// title task only runs while a thread still carries it.
const DefaultThreadTitle = "New Thread"

// BranchTitlePrefix decorates titles of threads produced by BranchOff.
const BranchTitlePrefix = "🌿 "

type Thread struct {
	Id         uuid.UUID
	ExternalId string
	Title      string
	IsPublic   bool
	OwnerId    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateThreadRequest struct {
	ExternalId string `json:"id" validate:"required"`
}

type CreateThreadResponse struct {
	Id         uuid.UUID `json:"id"`
	ExternalId string    `json:"external_id"`
}

type ThreadResponse struct {
	Id         uuid.UUID `json:"id"`
	ExternalId string    `json:"external_id"`
	Title      string    `json:"title"`
	IsPublic   bool      `json:"is_public"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type UpdateThreadTitleRequest struct {
	Title string `json:"title" validate:"required"`
}

type ShareThreadResponse struct {
	Id uuid.UUID `json:"id"` // storage id, used for the share link
}

type CloneThreadResponse struct {
	ExternalId string `json:"external_id"`
}

type BranchThreadRequest struct {
	ThreadId  string    `json:"thread_id" validate:"required"`
	MessageId uuid.UUID `json:"message_id" validate:"required"`
}

type BranchThreadResponse struct {
	ExternalId string `json:"external_id"`
}

type PromoteRequest struct {
	AnonymousId string `json:"anonymous_id" validate:"required"`
}

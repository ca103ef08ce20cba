package dto

import (
	"time"

	"github.com/google/uuid"
)

type AttachmentDTO struct {
	StorageId   string `json:"storage_id" validate:"required"`
	MimeType    string `json:"mime_type" validate:"required"`
	DisplayName string `json:"display_name"`
}

type CreateMessageRequest struct {
	ThreadId string          `json:"thread_id" validate:"required"`
	Content  string          `json:"content"`
	By       string          `json:"by" validate:"required"`
	Model    string          `json:"model,omitempty"`
	Files    []AttachmentDTO `json:"files,omitempty" validate:"max=10,dive"`
}

type MessageResponse struct {
	Id        uuid.UUID       `json:"id"`
	ThreadId  string          `json:"thread_id"`
	Content   string          `json:"content"`
	By        string          `json:"by"`
	Files     []AttachmentDTO `json:"files,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type UpdateMessageContentRequest struct {
	Content string `json:"content" validate:"required"`
}

type ModelInfoResponse struct {
	Label string `json:"label"`
	Name  string `json:"name"`
	Scope string `json:"for"`
}

type AttachmentListItem struct {
	StorageId   string    `json:"storage_id"`
	MimeType    string    `json:"mime_type"`
	DisplayName string    `json:"display_name"`
	ThreadId    string    `json:"thread_id"`
	CreatedAt   time.Time `json:"created_at"`
}

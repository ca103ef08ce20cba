package dto

import "github.com/google/uuid"

// GatewayFileRef is an attachment already resolved to a fetchable URL, ready
// to hand to the model gateway.
type GatewayFileRef struct {
	URL         string `json:"url"`
	MimeType    string `json:"mime_type"`
	DisplayName string `json:"display_name"`
}

// HistoryTurn is one prior message of the conversation, flattened for the
// reply task payload.
type HistoryTurn struct {
	By      string           `json:"by"`
	Content string           `json:"content"`
	Files   []GatewayFileRef `json:"files,omitempty"`
}

// PublishReplyTask is the payload of the GENERATE_AI_REPLY topic.
type PublishReplyTask struct {
	Track     string        `json:"track"`
	MessageId uuid.UUID     `json:"message_id"` // placeholder row to stream into
	OwnerId   string        `json:"owner_id"`
	ThreadId  string        `json:"thread_id"`
	Model     string        `json:"model"`
	History   []HistoryTurn `json:"history"`
}

// PublishTitleTask is the payload of the GENERATE_THREAD_TITLE topic.
type PublishTitleTask struct {
	Track        string    `json:"track"`
	ThreadRowId  uuid.UUID `json:"thread_row_id"`
	OwnerId      string    `json:"owner_id"`
	FirstMessage string    `json:"first_message"`
}

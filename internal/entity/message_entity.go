package entity

import (
	"time"

	"github.com/google/uuid"
)

// RoleHuman is the author value for user-written messages; anything else in
// Message.By is treated as a model identifier.
const RoleHuman = "human"

type Attachment struct {
	StorageId   string `json:"storageId"`
	MimeType    string `json:"mimeType"`
	DisplayName string `json:"displayName"`
}

type Message struct {
	Id        uuid.UUID
	ThreadId  string // owning thread's external id
	Content   string
	By        string
	OwnerId   string
	Files     []Attachment
	CreatedAt time.Time
}

// IsPlaceholder reports whether the message is an AI reply still awaiting its
// first streamed token. A completed empty reply is indistinguishable from this
// state by content alone; callers must not treat it as terminal.
func (m *Message) IsPlaceholder() bool {
	return m.Content == "" && m.By != RoleHuman
}

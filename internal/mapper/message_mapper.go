package mapper

import (
	"encoding/json"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"

	"gorm.io/datatypes"
)

type MessageMapper struct{}

func NewMessageMapper() *MessageMapper {
	return &MessageMapper{}
}

func (m *MessageMapper) ToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}

	var files []entity.Attachment
	if len(msg.Files) > 0 {
		// A corrupt files column degrades to "no attachments" rather than
		// failing the whole read.
		_ = json.Unmarshal(msg.Files, &files)
	}

	return &entity.Message{
		Id:        msg.Id,
		ThreadId:  msg.ThreadId,
		Content:   msg.Content,
		By:        msg.By,
		OwnerId:   msg.OwnerId,
		Files:     files,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *MessageMapper) ToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}

	files := msg.Files
	if files == nil {
		files = []entity.Attachment{}
	}
	raw, _ := json.Marshal(files)

	return &model.Message{
		Id:        msg.Id,
		ThreadId:  msg.ThreadId,
		Content:   msg.Content,
		By:        msg.By,
		OwnerId:   msg.OwnerId,
		Files:     datatypes.JSON(raw),
		CreatedAt: msg.CreatedAt,
	}
}

// TemporaryToEntity maps an anonymous-track row; Files is always empty there.
func (m *MessageMapper) TemporaryToEntity(msg *model.TemporaryMessage) *entity.Message {
	if msg == nil {
		return nil
	}
	return &entity.Message{
		Id:        msg.Id,
		ThreadId:  msg.ThreadId,
		Content:   msg.Content,
		By:        msg.By,
		OwnerId:   msg.OwnerId,
		CreatedAt: msg.CreatedAt,
	}
}

// ToTemporaryModel drops attachments: the temporary track never carries files.
func (m *MessageMapper) ToTemporaryModel(msg *entity.Message) *model.TemporaryMessage {
	if msg == nil {
		return nil
	}
	return &model.TemporaryMessage{
		Id:        msg.Id,
		ThreadId:  msg.ThreadId,
		Content:   msg.Content,
		By:        msg.By,
		OwnerId:   msg.OwnerId,
		CreatedAt: msg.CreatedAt,
	}
}

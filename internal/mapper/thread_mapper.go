package mapper

import (
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"
)

type ThreadMapper struct{}

func NewThreadMapper() *ThreadMapper {
	return &ThreadMapper{}
}

func (m *ThreadMapper) ToEntity(t *model.Thread) *entity.Thread {
	if t == nil {
		return nil
	}
	return &entity.Thread{
		Id:         t.Id,
		ExternalId: t.ExternalId,
		Title:      t.Title,
		IsPublic:   t.IsPublic,
		OwnerId:    t.OwnerId,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func (m *ThreadMapper) ToModel(t *entity.Thread) *model.Thread {
	if t == nil {
		return nil
	}
	return &model.Thread{
		Id:         t.Id,
		ExternalId: t.ExternalId,
		Title:      t.Title,
		IsPublic:   t.IsPublic,
		OwnerId:    t.OwnerId,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func (m *ThreadMapper) TemporaryToEntity(t *model.TemporaryThread) *entity.Thread {
	if t == nil {
		return nil
	}
	return &entity.Thread{
		Id:         t.Id,
		ExternalId: t.ExternalId,
		Title:      t.Title,
		IsPublic:   t.IsPublic,
		OwnerId:    t.OwnerId,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func (m *ThreadMapper) ToTemporaryModel(t *entity.Thread) *model.TemporaryThread {
	if t == nil {
		return nil
	}
	return &model.TemporaryThread{
		Id:         t.Id,
		ExternalId: t.ExternalId,
		Title:      t.Title,
		IsPublic:   t.IsPublic,
		OwnerId:    t.OwnerId,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

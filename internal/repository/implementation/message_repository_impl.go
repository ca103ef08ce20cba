package implementation

import (
	"context"
	"errors"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/mapper"
	"ai-chat-be/internal/model"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepositoryImpl[M any] struct {
	db       *gorm.DB
	toModel  func(*entity.Message) *M
	toEntity func(*M) *entity.Message
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	m := mapper.NewMessageMapper()
	return &MessageRepositoryImpl[model.Message]{
		db:       db,
		toModel:  m.ToModel,
		toEntity: m.ToEntity,
	}
}

func NewTemporaryMessageRepository(db *gorm.DB) contract.MessageRepository {
	m := mapper.NewMessageMapper()
	return &MessageRepositoryImpl[model.TemporaryMessage]{
		db:       db,
		toModel:  m.ToTemporaryModel,
		toEntity: m.TemporaryToEntity,
	}
}

func (r *MessageRepositoryImpl[M]) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MessageRepositoryImpl[M]) Create(ctx context.Context, message *entity.Message) error {
	m := r.toModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.toEntity(m)
	return nil
}

func (r *MessageRepositoryImpl[M]) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	// RowsAffected == 0 (row deleted mid-stream) is not an error.
	return r.db.WithContext(ctx).Model(new(M)).Where("id = ?", id).Update("content", content).Error
}

func (r *MessageRepositoryImpl[M]) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(new(M)).Error
}

func (r *MessageRepositoryImpl[M]) DeleteByThreadId(ctx context.Context, threadId string) error {
	return r.db.WithContext(ctx).Where("thread_id = ?", threadId).Delete(new(M)).Error
}

func (r *MessageRepositoryImpl[M]) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error) {
	var m M
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *MessageRepositoryImpl[M]) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var models []*M
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	messages := make([]*entity.Message, len(models))
	for i, m := range models {
		messages[i] = r.toEntity(m)
	}
	return messages, nil
}

func (r *MessageRepositoryImpl[M]) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(new(M)), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

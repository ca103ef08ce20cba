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

// ThreadRepositoryImpl serves both storage tracks: the type parameter selects
// the table, the mapper functions bridge to the shared entity.
type ThreadRepositoryImpl[M any] struct {
	db       *gorm.DB
	toModel  func(*entity.Thread) *M
	toEntity func(*M) *entity.Thread
}

func NewThreadRepository(db *gorm.DB) contract.ThreadRepository {
	m := mapper.NewThreadMapper()
	return &ThreadRepositoryImpl[model.Thread]{
		db:       db,
		toModel:  m.ToModel,
		toEntity: m.ToEntity,
	}
}

func NewTemporaryThreadRepository(db *gorm.DB) contract.ThreadRepository {
	m := mapper.NewThreadMapper()
	return &ThreadRepositoryImpl[model.TemporaryThread]{
		db:       db,
		toModel:  m.ToTemporaryModel,
		toEntity: m.TemporaryToEntity,
	}
}

func (r *ThreadRepositoryImpl[M]) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ThreadRepositoryImpl[M]) Create(ctx context.Context, thread *entity.Thread) error {
	m := r.toModel(thread)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*thread = *r.toEntity(m)
	return nil
}

func (r *ThreadRepositoryImpl[M]) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	return r.db.WithContext(ctx).Model(new(M)).Where("id = ?", id).Update("title", title).Error
}

func (r *ThreadRepositoryImpl[M]) SetPublic(ctx context.Context, id uuid.UUID, isPublic bool) error {
	return r.db.WithContext(ctx).Model(new(M)).Where("id = ?", id).Update("is_public", isPublic).Error
}

func (r *ThreadRepositoryImpl[M]) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(new(M)).Error
}

func (r *ThreadRepositoryImpl[M]) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Thread, error) {
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

func (r *ThreadRepositoryImpl[M]) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Thread, error) {
	var models []*M
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	threads := make([]*entity.Thread, len(models))
	for i, m := range models {
		threads[i] = r.toEntity(m)
	}
	return threads, nil
}

func (r *ThreadRepositoryImpl[M]) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(new(M)), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

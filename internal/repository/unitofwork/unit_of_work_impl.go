package unitofwork

import (
	"context"
	"fmt"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil outside Begin/Commit
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) ThreadRepository() contract.ThreadRepository {
	return implementation.NewThreadRepository(u.getDB())
}

func (u *UnitOfWorkImpl) MessageRepository() contract.MessageRepository {
	return implementation.NewMessageRepository(u.getDB())
}

func (u *UnitOfWorkImpl) TemporaryThreadRepository() contract.ThreadRepository {
	return implementation.NewTemporaryThreadRepository(u.getDB())
}

func (u *UnitOfWorkImpl) TemporaryMessageRepository() contract.MessageRepository {
	return implementation.NewTemporaryMessageRepository(u.getDB())
}

func (u *UnitOfWorkImpl) Threads(track entity.Track) contract.ThreadRepository {
	if track == entity.TrackTemporary {
		return u.TemporaryThreadRepository()
	}
	return u.ThreadRepository()
}

func (u *UnitOfWorkImpl) Messages(track entity.Track) contract.MessageRepository {
	if track == entity.TrackTemporary {
		return u.TemporaryMessageRepository()
	}
	return u.MessageRepository()
}

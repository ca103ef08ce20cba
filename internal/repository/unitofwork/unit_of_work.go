package unitofwork

import (
	"context"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ThreadRepository() contract.ThreadRepository
	MessageRepository() contract.MessageRepository
	TemporaryThreadRepository() contract.ThreadRepository
	TemporaryMessageRepository() contract.MessageRepository

	// Threads and Messages select the repository pair for a track, so the
	// branch/cascade/promote algorithms are written once.
	Threads(track entity.Track) contract.ThreadRepository
	Messages(track entity.Track) contract.MessageRepository
}

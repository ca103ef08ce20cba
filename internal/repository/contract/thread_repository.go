package contract

import (
	"context"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ThreadRepository is track-agnostic: the permanent and temporary tables are
// served by the same implementation bound to different models.
type ThreadRepository interface {
	Create(ctx context.Context, thread *entity.Thread) error
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error
	SetPublic(ctx context.Context, id uuid.UUID, isPublic bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Thread, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Thread, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

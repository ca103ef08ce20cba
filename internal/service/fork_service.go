package service

import (
	"context"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/apperrors"
	"ai-chat-be/pkg/events"
	pktNats "ai-chat-be/pkg/nats"

	"github.com/google/uuid"
)

type IForkService interface {
	// BranchOff copies the thread up to and including the given message into
	// a new thread on the same track.
	BranchOff(ctx context.Context, ownerId string, track entity.Track, request *dto.BranchThreadRequest) (*dto.BranchThreadResponse, error)

	// Promote moves everything the anonymous identity accumulated on the
	// temporary track onto the caller's permanent track.
	Promote(ctx context.Context, subjectId string, request *dto.PromoteRequest) error
}

type forkService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewForkService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IForkService {
	return &forkService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *forkService) BranchOff(ctx context.Context, ownerId string, track entity.Track, request *dto.BranchThreadRequest) (*dto.BranchThreadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	source, err := uow.Threads(track).FindOne(ctx,
		specification.ByExternalID{ExternalID: request.ThreadId},
		specification.OwnedBy{OwnerID: ownerId},
	)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, apperrors.NotFound("thread not found")
	}

	messages, err := uow.Messages(track).FindAll(ctx,
		specification.ByThreadID{ThreadID: source.ExternalId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	branch := &entity.Thread{
		Id:         uuid.New(),
		ExternalId: uuid.NewString(),
		Title:      entity.BranchTitlePrefix + source.Title,
		OwnerId:    ownerId,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.Threads(track).Create(ctx, branch); err != nil {
		return nil, err
	}

	// Copy in order until the cutoff, cutoff included. An unknown cutoff id
	// copies the whole thread.
	for _, m := range messages {
		copied := &entity.Message{
			Id:       uuid.New(),
			ThreadId: branch.ExternalId,
			Content:  m.Content,
			By:       m.By,
			OwnerId:  ownerId,
			Files:    m.Files,
		}
		if err := uow.Messages(track).Create(ctx, copied); err != nil {
			return nil, err
		}
		if m.Id == request.MessageId {
			break
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.BranchThreadResponse{ExternalId: branch.ExternalId}, nil
}

func (s *forkService) Promote(ctx context.Context, subjectId string, request *dto.PromoteRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	tempThreads, err := uow.TemporaryThreadRepository().FindAll(ctx,
		specification.OwnedBy{OwnerID: request.AnonymousId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return err
	}
	if len(tempThreads) == 0 {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	for _, t := range tempThreads {
		// External ids survive promotion so open tabs keep working; only the
		// owner changes.
		promoted := &entity.Thread{
			Id:         uuid.New(),
			ExternalId: t.ExternalId,
			Title:      t.Title,
			IsPublic:   t.IsPublic,
			OwnerId:    subjectId,
			CreatedAt:  t.CreatedAt,
		}
		if err := uow.ThreadRepository().Create(ctx, promoted); err != nil {
			return err
		}
		if err := uow.TemporaryThreadRepository().Delete(ctx, t.Id); err != nil {
			return err
		}

		messages, err := uow.TemporaryMessageRepository().FindAll(ctx,
			specification.ByThreadID{ThreadID: t.ExternalId},
			specification.OrderBy{Field: "created_at"},
		)
		if err != nil {
			return err
		}
		for _, m := range messages {
			// Temporary messages never carry files, so none move over.
			moved := &entity.Message{
				Id:        uuid.New(),
				ThreadId:  t.ExternalId,
				Content:   m.Content,
				By:        m.By,
				OwnerId:   subjectId,
				CreatedAt: m.CreatedAt,
			}
			if err := uow.MessageRepository().Create(ctx, moved); err != nil {
				return err
			}
			if err := uow.TemporaryMessageRepository().Delete(ctx, m.Id); err != nil {
				return err
			}
		}
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		for _, t := range tempThreads {
			evt := events.NewThreadEvent(events.TypeThreadPromoted, subjectId, t.ExternalId)
			if err := s.eventPublisher.Publish(ctx, evt); err != nil {
				s.logger.Warn("ForkService", "Failed to publish promote event", map[string]interface{}{"error": err.Error()})
			}
		}
	}
	return nil
}

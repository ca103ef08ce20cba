package service

import (
	"context"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/internal/websocket"
	"ai-chat-be/pkg/apperrors"
	"ai-chat-be/pkg/events"
	"ai-chat-be/pkg/gateway"
	pktNats "ai-chat-be/pkg/nats" // Renamed to avoid collision

	"github.com/google/uuid"
)

// StreamDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type StreamDelivery interface {
	Send(ownerId string, update websocket.StreamUpdate)
	Broadcast(update websocket.StreamUpdate)
}

const titleSystemPrompt = "You are a thread title generator. Given the first message of a conversation, respond with a short descriptive title of at most 10 words. Respond with the title text only, without quotes."

type IThreadService interface {
	CreateThread(ctx context.Context, ownerId string, track entity.Track, request *dto.CreateThreadRequest) (*dto.CreateThreadResponse, error)
	GetThreads(ctx context.Context, ownerId string, track entity.Track) ([]*dto.ThreadResponse, error)
	UpdateTitle(ctx context.Context, ownerId string, track entity.Track, threadExternalId string, title string) error
	DeleteThread(ctx context.Context, ownerId string, track entity.Track, threadExternalId string) error
	ShareThread(ctx context.Context, ownerId string, threadExternalId string) (*dto.ShareThreadResponse, error)
	CloneThread(ctx context.Context, ownerId string, sharedThreadRowId uuid.UUID) (*dto.CloneThreadResponse, error)

	// GenerateTitle runs on the worker side of the title topic.
	GenerateTitle(ctx context.Context, task *dto.PublishTitleTask) error
}

type threadService struct {
	uowFactory     unitofwork.RepositoryFactory
	provider       gateway.Provider
	titleModel     string
	sharedCache    *memory.SharedThreadCache
	delivery       StreamDelivery
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewThreadService(
	uowFactory unitofwork.RepositoryFactory,
	provider gateway.Provider,
	titleModel string,
	sharedCache *memory.SharedThreadCache,
	delivery StreamDelivery,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IThreadService {
	return &threadService{
		uowFactory:     uowFactory,
		provider:       provider,
		titleModel:     titleModel,
		sharedCache:    sharedCache,
		delivery:       delivery,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// findOwnedThread resolves an external id to an existing thread owned by the
// caller. A missing thread and a foreign-owned one are distinct failures.
func (s *threadService) findOwnedThread(ctx context.Context, uow unitofwork.UnitOfWork, track entity.Track, threadExternalId, ownerId string) (*entity.Thread, error) {
	thread, err := uow.Threads(track).FindOne(ctx,
		specification.ByExternalID{ExternalID: threadExternalId},
	)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, apperrors.NotFound("thread not found")
	}
	if thread.OwnerId != ownerId {
		return nil, apperrors.Forbidden("thread belongs to another owner")
	}
	return thread, nil
}

func (s *threadService) CreateThread(ctx context.Context, ownerId string, track entity.Track, request *dto.CreateThreadRequest) (*dto.CreateThreadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// The external id is client-generated so the UI can navigate before the
	// round trip completes. Re-posting the same id is a no-op.
	existing, err := uow.Threads(track).FindOne(ctx,
		specification.ByExternalID{ExternalID: request.ExternalId},
		specification.OwnedBy{OwnerID: ownerId},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &dto.CreateThreadResponse{Id: existing.Id, ExternalId: existing.ExternalId}, nil
	}

	thread := &entity.Thread{
		Id:         uuid.New(),
		ExternalId: request.ExternalId,
		Title:      entity.DefaultThreadTitle,
		OwnerId:    ownerId,
	}
	if err := uow.Threads(track).Create(ctx, thread); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.NewThreadEvent(events.TypeThreadCreated, ownerId, thread.ExternalId)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("ThreadService", "Failed to publish thread created event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.CreateThreadResponse{Id: thread.Id, ExternalId: thread.ExternalId}, nil
}

func (s *threadService) GetThreads(ctx context.Context, ownerId string, track entity.Track) ([]*dto.ThreadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	threads, err := uow.Threads(track).FindAll(ctx,
		specification.OwnedBy{OwnerID: ownerId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ThreadResponse, 0, len(threads))
	for _, t := range threads {
		res = append(res, &dto.ThreadResponse{
			Id:         t.Id,
			ExternalId: t.ExternalId,
			Title:      t.Title,
			IsPublic:   t.IsPublic,
			CreatedAt:  t.CreatedAt,
			UpdatedAt:  t.UpdatedAt,
		})
	}
	return res, nil
}

func (s *threadService) UpdateTitle(ctx context.Context, ownerId string, track entity.Track, threadExternalId string, title string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	thread, err := s.findOwnedThread(ctx, uow, track, threadExternalId, ownerId)
	if err != nil {
		return err
	}

	if err := uow.Threads(track).UpdateTitle(ctx, thread.Id, title); err != nil {
		return err
	}
	s.sharedCache.Delete(thread.Id.String())

	s.delivery.Send(ownerId, websocket.StreamUpdate{
		Type: websocket.EventThreadUpdated,
		Data: map[string]interface{}{"id": thread.ExternalId, "title": title},
	})
	return nil
}

// DeleteThread removes the thread and every message under it atomically.
func (s *threadService) DeleteThread(ctx context.Context, ownerId string, track entity.Track, threadExternalId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	thread, err := s.findOwnedThread(ctx, uow, track, threadExternalId, ownerId)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.Messages(track).DeleteByThreadId(ctx, thread.ExternalId); err != nil {
		return err
	}
	if err := uow.Threads(track).Delete(ctx, thread.Id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.sharedCache.Delete(thread.Id.String())

	s.delivery.Send(ownerId, websocket.StreamUpdate{
		Type: websocket.EventThreadDeleted,
		Data: map[string]interface{}{"id": thread.ExternalId},
	})

	if s.eventPublisher != nil {
		evt := events.NewThreadEvent(events.TypeThreadDeleted, ownerId, thread.ExternalId)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("ThreadService", "Failed to publish thread deleted event", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

// ShareThread marks a permanent thread public and returns its storage id,
// which is what the share link embeds. Sharing twice is harmless.
func (s *threadService) ShareThread(ctx context.Context, ownerId string, threadExternalId string) (*dto.ShareThreadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	thread, err := s.findOwnedThread(ctx, uow, entity.TrackPermanent, threadExternalId, ownerId)
	if err != nil {
		return nil, err
	}

	if !thread.IsPublic {
		if err := uow.ThreadRepository().SetPublic(ctx, thread.Id, true); err != nil {
			return nil, err
		}
		thread.IsPublic = true
		s.sharedCache.Save(thread)
	}

	return &dto.ShareThreadResponse{Id: thread.Id}, nil
}

// CloneThread copies a public thread, messages included, into the caller's
// own permanent threads under a fresh external id.
func (s *threadService) CloneThread(ctx context.Context, ownerId string, sharedThreadRowId uuid.UUID) (*dto.CloneThreadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	source, found := s.sharedCache.Get(sharedThreadRowId.String())
	if !found {
		var err error
		source, err = uow.ThreadRepository().FindOne(ctx, specification.ByID{ID: sharedThreadRowId})
		if err != nil {
			return nil, err
		}
	}
	if source == nil {
		return nil, apperrors.NotFound("thread not found")
	}
	if !source.IsPublic {
		return nil, apperrors.Forbidden("thread is not shared")
	}
	s.sharedCache.Save(source)

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByThreadID{ThreadID: source.ExternalId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	clone := &entity.Thread{
		Id:         uuid.New(),
		ExternalId: uuid.NewString(),
		Title:      source.Title,
		OwnerId:    ownerId,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ThreadRepository().Create(ctx, clone); err != nil {
		return nil, err
	}
	for _, m := range messages {
		copied := &entity.Message{
			Id:       uuid.New(),
			ThreadId: clone.ExternalId,
			Content:  m.Content,
			By:       m.By,
			OwnerId:  ownerId,
			Files:    m.Files,
		}
		if err := uow.MessageRepository().Create(ctx, copied); err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CloneThreadResponse{ExternalId: clone.ExternalId}, nil
}

// GenerateTitle asks the gateway for a title and applies it. The thread may
// have been renamed or deleted while the task sat on the queue; the update is
// last-write-wins and a missing row is not an error.
func (s *threadService) GenerateTitle(ctx context.Context, task *dto.PublishTitleTask) error {
	track := entity.Track(task.Track)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	thread, err := uow.Threads(track).FindOne(ctx, specification.ByID{ID: task.ThreadRowId})
	if err != nil {
		return err
	}
	if thread == nil {
		return nil
	}

	// Titles should be short and boring; keep the sampling tight and cap the
	// completion well above the 10-word limit the prompt asks for.
	title, err := s.provider.Generate(ctx, s.titleModel, titleSystemPrompt, task.FirstMessage,
		gateway.WithTemperature(0.3),
		gateway.WithMaxTokens(64),
	)
	if err != nil {
		return apperrors.UpstreamFailure("title generation failed", err)
	}
	if title == "" {
		return nil
	}

	if err := uow.Threads(track).UpdateTitle(ctx, thread.Id, title); err != nil {
		return err
	}
	s.sharedCache.Delete(thread.Id.String())

	s.delivery.Send(task.OwnerId, websocket.StreamUpdate{
		Type: websocket.EventThreadUpdated,
		Data: map[string]interface{}{"id": thread.ExternalId, "title": title},
	})

	if s.eventPublisher != nil {
		evt := events.NewThreadEvent(events.TypeTitleUpdated, task.OwnerId, thread.ExternalId)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("ThreadService", "Failed to publish title updated event", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

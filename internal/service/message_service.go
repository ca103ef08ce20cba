package service

import (
	"context"
	"encoding/json"
	"strings"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/internal/websocket"
	"ai-chat-be/pkg/apperrors"
	"ai-chat-be/pkg/modelcatalog"
	"ai-chat-be/pkg/objectstore"

	"github.com/google/uuid"
)

type IMessageService interface {
	// CreateMessage stores the user's message together with an empty
	// placeholder reply, then enqueues the generation work. The placeholder is
	// what the stream later fills in token by token.
	CreateMessage(ctx context.Context, ownerId string, track entity.Track, request *dto.CreateMessageRequest) ([]*dto.MessageResponse, error)
	GetMessages(ctx context.Context, ownerId string, track entity.Track, threadExternalId string) ([]*dto.MessageResponse, error)
	GetSharedMessages(ctx context.Context, sharedThreadRowId uuid.UUID) ([]*dto.MessageResponse, error)
	UpdateMessageContent(ctx context.Context, ownerId string, track entity.Track, messageId uuid.UUID, content string) error
	ListAttachments(ctx context.Context, ownerId string) ([]*dto.AttachmentListItem, error)
}

type messageService struct {
	uowFactory     unitofwork.RepositoryFactory
	replyPublisher IPublisherService
	titlePublisher IPublisherService
	store          objectstore.Store
	sharedCache    *memory.SharedThreadCache
	delivery       StreamDelivery
	logger         logger.ILogger
}

func NewMessageService(
	uowFactory unitofwork.RepositoryFactory,
	replyPublisher IPublisherService,
	titlePublisher IPublisherService,
	store objectstore.Store,
	sharedCache *memory.SharedThreadCache,
	delivery StreamDelivery,
	log logger.ILogger,
) IMessageService {
	return &messageService{
		uowFactory:     uowFactory,
		replyPublisher: replyPublisher,
		titlePublisher: titlePublisher,
		store:          store,
		sharedCache:    sharedCache,
		delivery:       delivery,
		logger:         log,
	}
}

func (s *messageService) CreateMessage(ctx context.Context, ownerId string, track entity.Track, request *dto.CreateMessageRequest) ([]*dto.MessageResponse, error) {
	if ownerId == "" {
		if track == entity.TrackTemporary {
			return nil, apperrors.InvalidArgument("anonymous id is required")
		}
		return nil, apperrors.Unauthorized("identity required")
	}
	if request.By != entity.RoleHuman {
		return nil, apperrors.InvalidArgument("only human messages can be posted")
	}
	// An empty model stores the message without requesting a reply.
	wantReply := request.Model != ""
	if wantReply {
		if !modelcatalog.IsSupported(request.Model) {
			return nil, apperrors.InvalidArgument("unsupported model")
		}
		if track == entity.TrackTemporary && !modelcatalog.AllowedForAnonymous(request.Model) {
			return nil, apperrors.Forbidden("model requires a signed-in account")
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	thread, err := uow.Threads(track).FindOne(ctx,
		specification.ByExternalID{ExternalID: request.ThreadId},
		specification.OwnedBy{OwnerID: ownerId},
	)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, apperrors.NotFound("thread not found")
	}

	// History snapshot is taken before the new rows land so the reply task is
	// self-contained and immune to later edits.
	prior, err := uow.Messages(track).FindAll(ctx,
		specification.ByThreadID{ThreadID: thread.ExternalId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	files := make([]entity.Attachment, 0, len(request.Files))
	for _, f := range request.Files {
		files = append(files, entity.Attachment{
			StorageId:   f.StorageId,
			MimeType:    f.MimeType,
			DisplayName: f.DisplayName,
		})
	}

	humanMsg := &entity.Message{
		Id:       uuid.New(),
		ThreadId: thread.ExternalId,
		Content:  request.Content,
		By:       entity.RoleHuman,
		OwnerId:  ownerId,
		Files:    files,
	}
	// The placeholder carries the model id as its author, so the client can
	// label the pending reply before any token arrives.
	var placeholder *entity.Message
	if wantReply {
		placeholder = &entity.Message{
			Id:       uuid.New(),
			ThreadId: thread.ExternalId,
			By:       request.Model,
			OwnerId:  ownerId,
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()
	if err := uow.Messages(track).Create(ctx, humanMsg); err != nil {
		return nil, err
	}
	if placeholder != nil {
		if err := uow.Messages(track).Create(ctx, placeholder); err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if wantReply {
		history := s.buildHistory(ctx, append(prior, humanMsg))
		task := dto.PublishReplyTask{
			Track:     string(track),
			MessageId: placeholder.Id,
			OwnerId:   ownerId,
			ThreadId:  thread.ExternalId,
			Model:     request.Model,
			History:   history,
		}
		payload, err := json.Marshal(task)
		if err != nil {
			return nil, err
		}
		if err := s.replyPublisher.Publish(ctx, payload); err != nil {
			return nil, err
		}

		// A title task is only worth queueing while the thread still carries
		// the sentinel title; a concurrent rename would win anyway.
		if thread.Title == entity.DefaultThreadTitle {
			titleTask := dto.PublishTitleTask{
				Track:        string(track),
				ThreadRowId:  thread.Id,
				OwnerId:      ownerId,
				FirstMessage: request.Content,
			}
			titlePayload, err := json.Marshal(titleTask)
			if err != nil {
				return nil, err
			}
			if err := s.titlePublisher.Publish(ctx, titlePayload); err != nil {
				s.logger.Warn("MessageService", "Failed to enqueue title task", map[string]interface{}{"error": err.Error()})
			}
		}
	}

	responses := []*dto.MessageResponse{toMessageResponse(humanMsg)}
	if placeholder != nil {
		responses = append(responses, toMessageResponse(placeholder))
	}
	for _, r := range responses {
		s.delivery.Send(ownerId, websocket.StreamUpdate{
			Type: websocket.EventMessageUpdated,
			Data: r,
		})
	}
	return responses, nil
}

func (s *messageService) GetMessages(ctx context.Context, ownerId string, track entity.Track, threadExternalId string) ([]*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	thread, err := uow.Threads(track).FindOne(ctx,
		specification.ByExternalID{ExternalID: threadExternalId},
		specification.OwnedBy{OwnerID: ownerId},
	)
	if err != nil {
		return nil, err
	}
	// An unknown thread reads as an empty conversation, not an error; the UI
	// polls threads it is still about to create.
	if thread == nil {
		return []*dto.MessageResponse{}, nil
	}

	messages, err := uow.Messages(track).FindAll(ctx,
		specification.ByThreadID{ThreadID: thread.ExternalId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}
	return toMessageResponses(messages), nil
}

// GetSharedMessages serves the public share link. No ownership check, but the
// thread must currently be shared.
func (s *messageService) GetSharedMessages(ctx context.Context, sharedThreadRowId uuid.UUID) ([]*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	thread, found := s.sharedCache.Get(sharedThreadRowId.String())
	if !found {
		var err error
		thread, err = uow.ThreadRepository().FindOne(ctx, specification.ByID{ID: sharedThreadRowId})
		if err != nil {
			return nil, err
		}
	}
	if thread == nil {
		return nil, apperrors.NotFound("thread not found")
	}
	if !thread.IsPublic {
		return nil, apperrors.Forbidden("thread is not shared")
	}
	s.sharedCache.Save(thread)

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByThreadID{ThreadID: thread.ExternalId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}
	return toMessageResponses(messages), nil
}

func (s *messageService) UpdateMessageContent(ctx context.Context, ownerId string, track entity.Track, messageId uuid.UUID, content string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	msg, err := uow.Messages(track).FindOne(ctx, specification.ByID{ID: messageId})
	if err != nil {
		return err
	}
	if msg == nil {
		return apperrors.NotFound("message not found")
	}
	if msg.OwnerId != ownerId {
		return apperrors.Forbidden("message belongs to another owner")
	}

	if err := uow.Messages(track).UpdateContent(ctx, messageId, content); err != nil {
		return err
	}

	s.delivery.Send(ownerId, websocket.StreamUpdate{
		Type: websocket.EventMessageUpdated,
		Data: map[string]interface{}{"id": messageId, "thread_id": msg.ThreadId, "content": content},
	})
	return nil
}

// ListAttachments flattens every file the owner has ever sent, newest first.
func (s *messageService) ListAttachments(ctx context.Context, ownerId string) ([]*dto.AttachmentListItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.OwnedBy{OwnerID: ownerId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.AttachmentListItem, 0)
	for _, m := range messages {
		for _, f := range m.Files {
			items = append(items, &dto.AttachmentListItem{
				StorageId:   f.StorageId,
				MimeType:    f.MimeType,
				DisplayName: f.DisplayName,
				ThreadId:    m.ThreadId,
				CreatedAt:   m.CreatedAt,
			})
		}
	}
	return items, nil
}

// buildHistory converts stored messages into the task payload. Attachments
// are resolved to presigned URLs now; the worker cannot mint them later
// without holding storage credentials. Only images and PDFs reach the model.
// A prior reply that never produced tokens rides along as an empty assistant
// turn; the history is the conversation as stored, not a cleaned-up version.
func (s *messageService) buildHistory(ctx context.Context, messages []*entity.Message) []dto.HistoryTurn {
	history := make([]dto.HistoryTurn, 0, len(messages))
	for _, m := range messages {
		turn := dto.HistoryTurn{By: m.By, Content: m.Content}
		for _, f := range m.Files {
			if !strings.HasPrefix(f.MimeType, "image/") && f.MimeType != "application/pdf" {
				continue
			}
			url, err := s.store.PresignedGet(ctx, f.StorageId)
			if err != nil {
				s.logger.Warn("MessageService", "Failed to resolve attachment, skipping", map[string]interface{}{
					"storage_id": f.StorageId,
					"error":      err.Error(),
				})
				continue
			}
			turn.Files = append(turn.Files, dto.GatewayFileRef{
				URL:         url,
				MimeType:    f.MimeType,
				DisplayName: f.DisplayName,
			})
		}
		history = append(history, turn)
	}
	return history
}

func toMessageResponse(m *entity.Message) *dto.MessageResponse {
	res := &dto.MessageResponse{
		Id:        m.Id,
		ThreadId:  m.ThreadId,
		Content:   m.Content,
		By:        m.By,
		CreatedAt: m.CreatedAt,
	}
	for _, f := range m.Files {
		res.Files = append(res.Files, dto.AttachmentDTO{
			StorageId:   f.StorageId,
			MimeType:    f.MimeType,
			DisplayName: f.DisplayName,
		})
	}
	return res
}

func toMessageResponses(messages []*entity.Message) []*dto.MessageResponse {
	out := make([]*dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, toMessageResponse(m))
	}
	return out
}

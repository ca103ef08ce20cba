package service

import (
	"context"
	"strings"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/internal/websocket"
	"ai-chat-be/pkg/gateway"
)

type IReplyService interface {
	GenerateReply(ctx context.Context, task *dto.PublishReplyTask) error
}

type replyService struct {
	uowFactory unitofwork.RepositoryFactory
	provider   gateway.Provider
	delivery   StreamDelivery
	logger     logger.ILogger
}

func NewReplyService(
	uowFactory unitofwork.RepositoryFactory,
	provider gateway.Provider,
	delivery StreamDelivery,
	log logger.ILogger,
) IReplyService {
	return &replyService{
		uowFactory: uowFactory,
		provider:   provider,
		delivery:   delivery,
		logger:     log,
	}
}

// GenerateReply streams the model output into the placeholder row. Every
// delta persists the full accumulated text, so a reader always sees a valid
// prefix of the final reply no matter when the worker dies. Failures leave
// whatever content made it; there is no rollback and no completion marker.
func (s *replyService) GenerateReply(ctx context.Context, task *dto.PublishReplyTask) error {
	track := entity.Track(task.Track)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	placeholder, err := uow.Messages(track).FindOne(ctx, specification.ByID{ID: task.MessageId})
	if err != nil {
		return err
	}
	if placeholder == nil {
		// Thread deleted while the task was queued.
		s.logger.Info("ReplyService", "Placeholder gone, dropping reply task", map[string]interface{}{"message_id": task.MessageId})
		return nil
	}

	history := make([]gateway.Message, 0, len(task.History))
	for _, turn := range task.History {
		msg := gateway.Message{Text: turn.Content}
		if turn.By == entity.RoleHuman {
			msg.Role = gateway.RoleUser
		} else {
			msg.Role = gateway.RoleAssistant
		}
		for _, f := range turn.Files {
			if strings.HasPrefix(f.MimeType, "image/") {
				msg.Images = append(msg.Images, f.URL)
			} else {
				msg.Files = append(msg.Files, gateway.FileRef{URL: f.URL, Name: f.DisplayName})
			}
		}
		history = append(history, msg)
	}

	var accumulator strings.Builder
	streamErr := s.provider.ChatStream(ctx, task.Model, history, func(delta string) error {
		accumulator.WriteString(delta)
		content := accumulator.String()

		// Last write wins. If the row vanished mid-stream the update is a
		// silent no-op and the stream keeps draining.
		if err := uow.Messages(track).UpdateContent(ctx, task.MessageId, content); err != nil {
			s.logger.Warn("ReplyService", "Failed to persist delta", map[string]interface{}{
				"message_id": task.MessageId,
				"error":      err.Error(),
			})
			return nil
		}

		s.delivery.Send(task.OwnerId, websocket.StreamUpdate{
			Type: websocket.EventMessageUpdated,
			Data: map[string]interface{}{
				"id":        task.MessageId,
				"thread_id": task.ThreadId,
				"content":   content,
			},
		})
		return nil
	})
	if streamErr != nil {
		s.logger.Error("ReplyService", "Stream aborted, partial reply kept", map[string]interface{}{
			"message_id": task.MessageId,
			"model":      task.Model,
			"error":      streamErr.Error(),
		})
	}
	return nil
}

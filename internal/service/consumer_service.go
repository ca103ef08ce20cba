package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-chat-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub        *gochannel.GoChannel
	replyTopic    string
	titleTopic    string
	replyService  IReplyService
	threadService IThreadService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	replyTopic string,
	titleTopic string,
	replyService IReplyService,
	threadService IThreadService,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		replyTopic:    replyTopic,
		titleTopic:    titleTopic,
		replyService:  replyService,
		threadService: threadService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	replyMessages, err := cs.pubSub.Subscribe(ctx, cs.replyTopic)
	if err != nil {
		return err
	}
	titleMessages, err := cs.pubSub.Subscribe(ctx, cs.titleTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range replyMessages {
			cs.processReply(ctx, msg)
		}
	}()
	go func() {
		for msg := range titleMessages {
			cs.processTitle(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processReply(ctx context.Context, msg *message.Message) {
	var task dto.PublishReplyTask
	if err := json.Unmarshal(msg.Payload, &task); err != nil {
		log.Printf("[ERROR] Failed to unmarshal reply task: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Generating reply for message %s (model %s)", task.MessageId, task.Model)

	// Generation failures are terminal: the partial reply stays as-is and the
	// task is not retried, so the user never gets a duplicated stream.
	if err := cs.replyService.GenerateReply(ctx, &task); err != nil {
		log.Printf("[ERROR] Reply generation for message %s: %v", task.MessageId, err)
	}
	msg.Ack()
}

func (cs *consumerService) processTitle(ctx context.Context, msg *message.Message) {
	var task dto.PublishTitleTask
	if err := json.Unmarshal(msg.Payload, &task); err != nil {
		log.Printf("[ERROR] Failed to unmarshal title task: %v", err)
		msg.Ack()
		return
	}

	log.Printf("[INFO] Generating title for thread %s", task.ThreadRowId)

	if err := cs.threadService.GenerateTitle(ctx, &task); err != nil {
		// The thread keeps its sentinel title; the next message will queue a
		// fresh attempt.
		log.Printf("[ERROR] Title generation for thread %s: %v", task.ThreadRowId, err)
	}
	msg.Ack()
}

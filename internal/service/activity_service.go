package service

import (
	"context"
	"strings"

	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/pkg/events"
	pktNats "ai-chat-be/pkg/nats"
)

// ActivityService drains the thread lifecycle events from the bus into the
// activity log. Other backends (analytics, billing) attach their own durable
// consumers to the same stream.
type ActivityService struct {
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewActivityService(sub *pktNats.Subscriber, log logger.ILogger) *ActivityService {
	return &ActivityService{
		subscriber: sub,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *ActivityService) Start() {
	if s.subscriber == nil {
		return
	}
	err := s.subscriber.Subscribe("events.>", "chat-activity-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("ActivityService", "Failed to start activity subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("ActivityService", "Activity service started, listening to events.>", nil)
}

func (s *ActivityService) handleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), "events.")
	s.logger.Info("Activity", typeCode, event.Payload())
	return nil
}

package events

import "time"

// Event is the contract for all domain events carried over the bus.
type Event interface {
	// EventType returns the unique code for this event (e.g., "THREAD_PROMOTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a plain implementation for events without extra behavior.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Thread lifecycle event types published to NATS.
const (
	TypeThreadCreated  = "THREAD_CREATED"
	TypeThreadDeleted  = "THREAD_DELETED"
	TypeThreadPromoted = "THREAD_PROMOTED"
	TypeTitleUpdated   = "THREAD_TITLE_UPDATED"
)

// NewThreadEvent builds a thread lifecycle event for one owner.
func NewThreadEvent(eventType, ownerID, threadID string) Event {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"owner_id":  ownerID,
			"thread_id": threadID,
		},
		OccurredAt: time.Now(),
	}
}

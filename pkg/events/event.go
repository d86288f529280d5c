package events

import "time"

const EventChatRejected = "CHAT_REJECTED"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_REJECTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

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

// NewChatRejected builds the audit event for a message blocked by the safety
// filter. The message text itself is never included.
func NewChatRejected(callerId, category string, messageLength int, at time.Time) BaseEvent {
	return BaseEvent{
		Type: EventChatRejected,
		Data: map[string]interface{}{
			"caller_id":      callerId,
			"category":       category,
			"message_length": messageLength,
			"occurred_at":    at.UTC().Format(time.RFC3339),
		},
		OccurredAt: at,
	}
}

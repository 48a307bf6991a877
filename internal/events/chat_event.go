package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

// Event names the frontend subscribes to.
const (
	ChatTurn      = "notegpt:chat:turn"
	ChatDone      = "notegpt:chat:done"
	ChatError     = "notegpt:chat:error"
	RefactorDone  = "notegpt:refactor:done"
	RefactorError = "notegpt:refactor:error"
)

// ChatEvent is the payload emitted to the frontend for chat and refactor
// activity.
type ChatEvent struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	Conversation string    `json:"conversation,omitempty"`
	Speaker      string    `json:"speaker,omitempty"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
}

func newEvent(eventType EventType, message string) ChatEvent {
	return ChatEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewInfo creates an info ChatEvent.
func NewInfo(message string) ChatEvent {
	return newEvent(EventInfo, message)
}

// NewSuccess creates a success ChatEvent.
func NewSuccess(message string) ChatEvent {
	return newEvent(EventSuccess, message)
}

// NewError creates an error ChatEvent.
func NewError(message string) ChatEvent {
	return newEvent(EventError, message)
}

package events

import (
	"context"
	"time"
)

// Note lifecycle event types
const (
	NoteCreated            = "note.created"
	NoteDeleted            = "note.deleted"
	NoteDescriptionUpdated = "note.description_updated"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "note.created").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher delivers events to whatever bus is configured
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// BaseEvent is the default Event implementation
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

// NewNoteEvent builds a note lifecycle event scoped to a session
func NewNoteEvent(eventType, sessionID, noteID, title, description string) BaseEvent {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"session_id":  sessionID,
			"note_id":     noteID,
			"title":       title,
			"description": description,
		},
		OccurredAt: time.Now(),
	}
}

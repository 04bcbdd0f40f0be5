package core

import "github.com/roomcast/roomcast-server/internal/store"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventMessageCreated notifies room subscribers about a new message.
	EventMessageCreated EventKind = iota
	// EventMessageEdited notifies room subscribers about an edited message.
	EventMessageEdited
	// EventMessageDeleted notifies room subscribers that a message is gone.
	// Only the id and room survive deletion, so the event carries no body.
	EventMessageDeleted
	// EventHistory delivers message history to a client upon joining a room.
	EventHistory
	// EventError notifies the originating client about a failed mutation.
	// Errors are never broadcast to the room.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind      EventKind
	Room      string
	Message   *store.Message   // created/edited
	Messages  []*store.Message // history
	DeletedID string           // deleted
	Error     *CoreError
}

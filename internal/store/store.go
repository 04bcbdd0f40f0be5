package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a message id does not exist.
	ErrNotFound = errors.New("message not found")
	// ErrInvalid is returned when a message fails the store's own guards.
	ErrInvalid = errors.New("invalid message")
	// ErrUnavailable wraps failures of the underlying persistence layer.
	// The store never retries; retry policy belongs to the caller.
	ErrUnavailable = errors.New("storage unavailable")
)

// Message is a persisted chat message. ID is assigned by the store at
// creation and is unique across all rooms. Room, User and AttachmentURL
// are immutable after creation; only Text may change.
type Message struct {
	ID            string
	Room          string
	User          string
	Text          string
	AttachmentURL string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MessageStore handles message persistence.
type MessageStore interface {
	// CreateMessage persists a new message and assigns ID, CreatedAt and
	// UpdatedAt. Rejects with ErrInvalid when room or user is empty, or
	// when both text and attachmentURL are absent.
	CreateMessage(ctx context.Context, user, text, room, attachmentURL string) (*Message, error)

	// ListMessages returns all messages of a room in the order they were
	// accepted (non-decreasing CreatedAt). A room with no history yields
	// an empty slice, not an error.
	ListMessages(ctx context.Context, room string) ([]*Message, error)

	// UpdateMessage replaces the text of an existing message and
	// refreshes UpdatedAt. Fails with ErrNotFound when id is absent.
	UpdateMessage(ctx context.Context, id, text string) (*Message, error)

	// DeleteMessage removes a message permanently and returns the deleted
	// row so callers can recover its room. Fails with ErrNotFound when id
	// is absent.
	DeleteMessage(ctx context.Context, id string) (*Message, error)
}

// Store aggregates storage interfaces.
type Store interface {
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}

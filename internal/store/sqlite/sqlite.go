package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roomcast/roomcast-server/internal/store"
)

// Messages carry an AUTOINCREMENT seq column next to the public uuid id.
// seq is the ordering key: it matches the order writes were accepted and
// breaks created_at ties deterministically.
const schema = `
CREATE TABLE IF NOT EXISTS messages (
	seq            INTEGER PRIMARY KEY AUTOINCREMENT,
	id             TEXT NOT NULL UNIQUE,
	room           TEXT NOT NULL,
	user           TEXT NOT NULL,
	text           TEXT NOT NULL DEFAULT '',
	attachment_url TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL,
	updated_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_room_seq ON messages(room, seq);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and ensures the schema exists.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply a custom schema against :memory:.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateMessage persists a new message, assigning id and timestamps.
func (s *SQLiteStore) CreateMessage(ctx context.Context, user, text, room, attachmentURL string) (*store.Message, error) {
	if room == "" || user == "" {
		return nil, fmt.Errorf("%w: room and user are required", store.ErrInvalid)
	}
	if text == "" && attachmentURL == "" {
		return nil, fmt.Errorf("%w: message needs text or attachment", store.ErrInvalid)
	}

	msg := &store.Message{
		ID:            uuid.NewString(),
		Room:          room,
		User:          user,
		Text:          text,
		AttachmentURL: attachmentURL,
		CreatedAt:     time.Now().UTC(),
	}
	msg.UpdatedAt = msg.CreatedAt

	query := `
		INSERT INTO messages (id, room, user, text, attachment_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		msg.ID, msg.Room, msg.User, msg.Text, msg.AttachmentURL, msg.CreatedAt, msg.UpdatedAt,
	)
	if err != nil {
		return nil, unavailable("insert message", err)
	}

	return msg, nil
}

// ListMessages returns a room's history in acceptance order.
func (s *SQLiteStore) ListMessages(ctx context.Context, room string) ([]*store.Message, error) {
	query := `
		SELECT id, room, user, text, attachment_url, created_at, updated_at
		FROM messages
		WHERE room = ?
		ORDER BY seq ASC
	`
	rows, err := s.db.QueryContext(ctx, query, room)
	if err != nil {
		return nil, unavailable("query messages", err)
	}
	defer rows.Close()

	messages := make([]*store.Message, 0)
	for rows.Next() {
		var msg store.Message
		if err := rows.Scan(
			&msg.ID, &msg.Room, &msg.User, &msg.Text, &msg.AttachmentURL,
			&msg.CreatedAt, &msg.UpdatedAt,
		); err != nil {
			return nil, unavailable("scan message", err)
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate messages", err)
	}

	return messages, nil
}

// UpdateMessage replaces the text of a message, leaving room, user and
// attachment untouched.
func (s *SQLiteStore) UpdateMessage(ctx context.Context, id, text string) (*store.Message, error) {
	query := `
		UPDATE messages
		SET text = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query, text, time.Now().UTC(), id)
	if err != nil {
		return nil, unavailable("update message", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, unavailable("update message rows affected", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("update message %s: %w", id, store.ErrNotFound)
	}

	return s.getMessage(ctx, id)
}

// DeleteMessage removes a message permanently and returns the deleted row.
func (s *SQLiteStore) DeleteMessage(ctx context.Context, id string) (*store.Message, error) {
	// Single writer connection, so select-then-delete is not racy.
	msg, err := s.getMessage(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id); err != nil {
		return nil, unavailable("delete message", err)
	}

	return msg, nil
}

func (s *SQLiteStore) getMessage(ctx context.Context, id string) (*store.Message, error) {
	query := `
		SELECT id, room, user, text, attachment_url, created_at, updated_at
		FROM messages
		WHERE id = ?
	`
	var msg store.Message
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&msg.ID, &msg.Room, &msg.User, &msg.Text, &msg.AttachmentURL,
		&msg.CreatedAt, &msg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("message %s: %w", id, store.ErrNotFound)
		}
		return nil, unavailable("query message", err)
	}

	return &msg, nil
}

// unavailable classifies driver failures so callers can match on
// store.ErrUnavailable without losing the cause.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, store.ErrUnavailable, err)
}

package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roomcast/roomcast-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestCreateAndListRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateMessage(ctx, "alice", "hello", "room1", "http://files.local/uploads/1.png")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())
	require.Equal(t, created.CreatedAt, created.UpdatedAt)

	messages, err := s.ListMessages(ctx, "room1")
	require.NoError(t, err)
	require.Len(t, messages, 1)

	got := messages[0]
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, "alice", got.User)
	require.Equal(t, "hello", got.Text)
	require.Equal(t, "room1", got.Room)
	require.Equal(t, "http://files.local/uploads/1.png", got.AttachmentURL)
}

func TestListPreservesAcceptanceOrderAcrossRooms(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Interleave writes into two rooms.
	var wantRoom1 []string
	for i := 0; i < 10; i++ {
		room := "room1"
		if i%2 == 1 {
			room = "room2"
		}
		msg, err := s.CreateMessage(ctx, "alice", string(rune('a'+i)), room, "")
		require.NoError(t, err)
		if room == "room1" {
			wantRoom1 = append(wantRoom1, msg.ID)
		}
	}

	messages, err := s.ListMessages(ctx, "room1")
	require.NoError(t, err)
	require.Len(t, messages, len(wantRoom1))
	for i, msg := range messages {
		require.Equal(t, wantRoom1[i], msg.ID)
		require.Equal(t, "room1", msg.Room)
	}
	for i := 1; i < len(messages); i++ {
		require.False(t, messages[i].CreatedAt.Before(messages[i-1].CreatedAt))
	}
}

func TestListEmptyRoom(t *testing.T) {
	s := newTestStore(t)

	messages, err := s.ListMessages(context.Background(), "ghost")
	require.NoError(t, err)
	require.NotNil(t, messages)
	require.Empty(t, messages)
}

func TestUpdateChangesOnlyTextAndUpdatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateMessage(ctx, "alice", "", "room1", "http://files.local/uploads/2.pdf")
	require.NoError(t, err)

	// Editing an attachment-only message adds a caption.
	updated, err := s.UpdateMessage(ctx, created.ID, "caption")
	require.NoError(t, err)

	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, created.Room, updated.Room)
	require.Equal(t, created.User, updated.User)
	require.Equal(t, created.AttachmentURL, updated.AttachmentURL)
	require.Equal(t, "caption", updated.Text)
	require.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	require.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestUpdateMissingID(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpdateMessage(context.Background(), "no-such-id", "text")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteReturnsRowAndIsFinal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateMessage(ctx, "alice", "bye", "room1", "")
	require.NoError(t, err)

	deleted, err := s.DeleteMessage(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, deleted.ID)
	require.Equal(t, "room1", deleted.Room)

	messages, err := s.ListMessages(ctx, "room1")
	require.NoError(t, err)
	require.Empty(t, messages)

	_, err = s.UpdateMessage(ctx, created.ID, "zombie")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.DeleteMessage(ctx, created.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		user string
		text string
		room string
		url  string
	}{
		{name: "empty room", user: "alice", text: "hi", room: ""},
		{name: "empty user", user: "", text: "hi", room: "room1"},
		{name: "no content", user: "alice", text: "", room: "room1", url: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateMessage(ctx, tt.user, tt.text, tt.room, tt.url)
			require.ErrorIs(t, err, store.ErrInvalid)
		})
	}

	messages, err := s.ListMessages(ctx, "room1")
	require.NoError(t, err)
	require.Empty(t, messages)
}

package core

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/roomcast/roomcast-server/internal/store"
	"github.com/roomcast/roomcast-server/internal/store/sqlite"
)

func newTestHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	hub := NewHub(st, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	return hub, cancel
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *Event, wait time.Duration) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("expected no event, got kind %v", ev.Kind)
	case <-time.After(wait):
	}
}

// countingStore records calls so tests can assert a mutation never
// reached persistence.
type countingStore struct {
	creates int
	updates int
	deletes int
	lists   int
}

func (c *countingStore) CreateMessage(ctx context.Context, user, text, room, attachmentURL string) (*store.Message, error) {
	c.creates++
	now := time.Now().UTC()
	return &store.Message{ID: "m1", Room: room, User: user, Text: text, AttachmentURL: attachmentURL, CreatedAt: now, UpdatedAt: now}, nil
}

func (c *countingStore) ListMessages(ctx context.Context, room string) ([]*store.Message, error) {
	c.lists++
	return nil, nil
}

func (c *countingStore) UpdateMessage(ctx context.Context, id, text string) (*store.Message, error) {
	c.updates++
	return nil, store.ErrNotFound
}

func (c *countingStore) DeleteMessage(ctx context.Context, id string) (*store.Message, error) {
	c.deletes++
	return nil, store.ErrNotFound
}

// failingStore simulates a storage outage: reads succeed, writes fail.
type failingStore struct{}

func (failingStore) CreateMessage(ctx context.Context, user, text, room, attachmentURL string) (*store.Message, error) {
	return nil, fmt.Errorf("insert message: %w: disk I/O error", store.ErrUnavailable)
}

func (failingStore) ListMessages(ctx context.Context, room string) ([]*store.Message, error) {
	return []*store.Message{}, nil
}

func (failingStore) UpdateMessage(ctx context.Context, id, text string) (*store.Message, error) {
	return nil, fmt.Errorf("update message: %w: disk I/O error", store.ErrUnavailable)
}

func (failingStore) DeleteMessage(ctx context.Context, id string) (*store.Message, error) {
	return nil, fmt.Errorf("delete message: %w: disk I/O error", store.ErrUnavailable)
}

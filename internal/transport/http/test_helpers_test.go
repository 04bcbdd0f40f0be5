package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/roomcast/roomcast-server/internal/config"
	"github.com/roomcast/roomcast-server/internal/core"
	"github.com/roomcast/roomcast-server/internal/store/sqlite"
	"github.com/roomcast/roomcast-server/internal/upload"
)

// startTestServer wires a full server against an in-memory store.
func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	ts, _ := startTestServerWithStore(t)
	return ts
}

// startTestServerWithStore also hands back the store so tests can
// simulate a storage outage.
func startTestServerWithStore(t *testing.T) (*httptest.Server, *sqlite.SQLiteStore) {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := zerolog.Nop()
	hub := core.NewHub(st, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	uploads, err := upload.New(t.TempDir(), "http://files.local")
	if err != nil {
		t.Fatalf("failed to create upload store: %v", err)
	}

	server := NewServer(hub, uploads, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, st
}

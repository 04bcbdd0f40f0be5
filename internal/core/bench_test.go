package core

import (
	"context"
	"strconv"
	"testing"

	"github.com/roomcast/roomcast-server/internal/store/sqlite"
)

func benchmarkRoomBroadcast(b *testing.B, recipients int) {
	st, err := sqlite.New(":memory:")
	if err != nil {
		b.Fatalf("bench store: %v", err)
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(st, nil)
	go hub.Run(ctx)

	clients := make([]*Client, 0, recipients)
	for i := 0; i < recipients; i++ {
		c := NewClient("c" + strconv.Itoa(i))
		hub.RegisterClient(c)
		c.Commands <- &Command{Kind: CommandJoinRoom, Room: "bench"}
		clients = append(clients, c)
	}

	// Drain events for all but the first recipient to avoid channel backpressure.
	target := clients[0]
	for _, c := range clients[1:] {
		go func(cl *Client) {
			for range cl.Events {
			}
		}(c)
	}
	mustDrainHistory(target)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := hub.Apply(ctx, Mutation{
			Kind: MutationCreate,
			User: "bench",
			Text: "payload",
			Room: "bench",
		})
		if err != nil {
			b.Fatalf("apply: %v", err)
		}
		<-target.Events
	}
}

func mustDrainHistory(c *Client) {
	for ev := range c.Events {
		if ev.Kind == EventHistory {
			return
		}
	}
}

func BenchmarkRoomBroadcast_10(b *testing.B)  { benchmarkRoomBroadcast(b, 10) }
func BenchmarkRoomBroadcast_100(b *testing.B) { benchmarkRoomBroadcast(b, 100) }
func BenchmarkRoomBroadcast_500(b *testing.B) { benchmarkRoomBroadcast(b, 500) }

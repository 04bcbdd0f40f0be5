package core

import "github.com/roomcast/roomcast-server/internal/observability"

// room groups clients subscribed to the same channel. It is only ever
// touched from the hub goroutine, so it carries no lock.
type room struct {
	name    string
	clients map[*Client]struct{}
}

func newRoom(name string) *room {
	return &room{
		name:    name,
		clients: make(map[*Client]struct{}),
	}
}

// add inserts a client into the room. Returns true if newly added.
func (r *room) add(c *Client) bool {
	if _, exists := r.clients[c]; exists {
		return false
	}
	r.clients[c] = struct{}{}
	return true
}

// remove deletes a client from the room. Returns true if removed.
func (r *room) remove(c *Client) bool {
	if _, exists := r.clients[c]; !exists {
		return false
	}
	delete(r.clients, c)
	return true
}

// broadcast sends an event to every client in the room. Delivery is
// at-most-once: slow consumers are dropped rather than blocking the hub.
func (r *room) broadcast(event *Event) {
	for client := range r.clients {
		select {
		case client.Events <- event:
			observability.BroadcastDeliveriesTotal.Inc()
		default:
			observability.BroadcastDropsTotal.Inc()
		}
	}
}

func (r *room) empty() bool {
	return len(r.clients) == 0
}

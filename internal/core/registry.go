package core

// Registry tracks which live connections are subscribed to which room.
// State is process-lifetime only: clients re-join after a restart.
// All mutation happens on the hub goroutine, so no lock is needed.
type Registry struct {
	rooms map[string]*room
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*room)}
}

// Join subscribes a client to a room. Joining an already-joined room is
// a no-op; the return value reports whether the subscription is new.
func (reg *Registry) Join(c *Client, name string) bool {
	r, ok := reg.rooms[name]
	if !ok {
		r = newRoom(name)
		reg.rooms[name] = r
	}
	return r.add(c)
}

// Leave unsubscribes a client from a room. Idempotent.
func (reg *Registry) Leave(c *Client, name string) bool {
	r, ok := reg.rooms[name]
	if !ok {
		return false
	}
	removed := r.remove(c)
	if r.empty() {
		delete(reg.rooms, name)
	}
	return removed
}

// LeaveAll drops every subscription of a client. Invoked on disconnect.
func (reg *Registry) LeaveAll(c *Client) {
	for name, r := range reg.rooms {
		r.remove(c)
		if r.empty() {
			delete(reg.rooms, name)
		}
	}
}

// Broadcast delivers an event to the current subscribers of a room.
// Membership is snapshotted at dispatch time; rooms with no subscribers
// swallow the event silently, persistence remains the source of truth.
func (reg *Registry) Broadcast(name string, event *Event) {
	r, ok := reg.rooms[name]
	if !ok {
		return
	}
	r.broadcast(event)
}

// Subscribers returns the ids of the clients currently subscribed to a
// room. A room nobody is in yields nil.
func (reg *Registry) Subscribers(name string) []string {
	r, ok := reg.rooms[name]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(r.clients))
	for c := range r.clients {
		ids = append(ids, c.ID)
	}
	return ids
}

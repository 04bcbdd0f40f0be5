package core

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/roomcast/roomcast-server/internal/store"
)

// Hub owns the room registry and serializes every mutation through a
// single run loop. Both entry surfaces funnel into that loop, which is
// what makes per-room broadcast order match commit order: a mutation is
// persisted and fanned out before the next one is picked up.
type Hub struct {
	store    store.MessageStore
	registry *Registry
	log      *zerolog.Logger

	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand
	mutations  chan *mutationRequest
}

type clientCommand struct {
	client *Client
	cmd    *Command
}

type mutationRequest struct {
	ctx      context.Context
	mutation Mutation
	reply    chan mutationResult
}

type mutationResult struct {
	msg *store.Message
	err error
}

// NewHub creates a hub backed by the given message store.
func NewHub(st store.MessageStore, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		store:      st,
		registry:   NewRegistry(),
		log:        logger,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan clientCommand),
		mutations:  make(chan *mutationRequest),
	}
}

// RegisterClient adds a live connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient removes a connection and all its subscriptions.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Run processes registrations, client commands and mutations until the
// context is cancelled. It must be running for Apply to return.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			go h.pump(ctx, c)
			h.log.Debug().Str("client_id", c.ID).Msg("client registered")
		case c := <-h.unregister:
			if _, ok := h.clients[c]; !ok {
				continue
			}
			delete(h.clients, c)
			h.registry.LeaveAll(c)
			close(c.Events)
			h.log.Debug().Str("client_id", c.ID).Msg("client unregistered")
		case cc := <-h.commands:
			h.handleCommand(ctx, cc.client, cc.cmd)
		case req := <-h.mutations:
			msg, err := h.applyMutation(req.ctx, req.mutation)
			req.reply <- mutationResult{msg: msg, err: err}
		}
	}
}

// Apply submits a mutation from the request/response surface and waits
// for the result. Once the hub picks the mutation up it runs to
// completion even if the caller goes away.
func (h *Hub) Apply(ctx context.Context, m Mutation) (*store.Message, error) {
	req := &mutationRequest{ctx: ctx, mutation: m, reply: make(chan mutationResult, 1)}

	select {
	case h.mutations <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	// The reply channel is buffered: if the caller stops waiting the
	// mutation still runs to completion inside the hub.
	select {
	case res := <-req.reply:
		return res.msg, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// History reads a room's persisted history. Read-only, so it bypasses
// the mutation loop. The room name is normalized with the same rules as
// mutations so both paths resolve to one identity.
func (h *Hub) History(ctx context.Context, room string) ([]*store.Message, error) {
	return h.store.ListMessages(ctx, sanitize(room))
}

// pump forwards a client's commands into the hub loop.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.commands <- clientCommand{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (h *Hub) handleCommand(ctx context.Context, c *Client, cmd *Command) {
	if _, ok := h.clients[c]; !ok {
		// Command queued by a connection that has since unregistered.
		return
	}
	switch cmd.Kind {
	case CommandJoinRoom:
		// Room identifiers are normalized the same way on every path,
		// so the room a client joins is the room its mutations land in.
		roomName := sanitize(cmd.Room)
		if roomName == "" {
			h.sendError(c, coreError(ErrCodeBadRequest, "room is required"))
			return
		}
		if !h.registry.Join(c, roomName) {
			// Already joined; nothing to do.
			return
		}
		h.log.Info().Str("client_id", c.ID).Str("room", roomName).Msg("client joined room")
		h.sendHistory(ctx, c, roomName)
	case CommandLeaveRoom:
		roomName := sanitize(cmd.Room)
		h.registry.Leave(c, roomName)
		h.log.Info().Str("client_id", c.ID).Str("room", roomName).Msg("client left room")
	case CommandSendMessage:
		if _, err := h.applyMutation(ctx, cmd.Mutation); err != nil {
			// Push failures stay between the hub and the originating
			// connection; the room is never notified.
			h.sendError(c, errorFrom(err))
		}
	}
}

// sendHistory replays persisted history to a client that just joined,
// so messages persisted while it was away are not lost.
func (h *Hub) sendHistory(ctx context.Context, c *Client, room string) {
	messages, err := h.store.ListMessages(ctx, room)
	if err != nil {
		h.log.Error().Err(err).Str("room", room).Msg("failed to load history")
		h.sendError(c, errorFrom(err))
		return
	}
	h.sendEvent(c, &Event{Kind: EventHistory, Room: room, Messages: messages})
}

func (h *Hub) sendError(c *Client, ce *CoreError) {
	h.sendEvent(c, &Event{Kind: EventError, Error: ce})
}

func (h *Hub) sendEvent(c *Client, event *Event) {
	select {
	case c.Events <- event:
	default:
		// Drop if slow consumer.
	}
}

package proto

import (
	"encoding/json"
	"time"
)

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin  = "join_room"
	InboundTypeLeave = "leave_room"
	InboundTypeSend  = "send_message"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventReceiveMessage = "receive_message"
	EventEditMessage    = "edit_message"
	EventDeleteMessage  = "delete_message"
	EventHistory        = "history"
)

// JoinData requests to join or leave a specific room.
type JoinData struct {
	Room string `json:"room"`
}

// SendData is a chat message from the client. Text may be absent when
// an attachment is present.
type SendData struct {
	User          string `json:"user"`
	Text          string `json:"text,omitempty"`
	Room          string `json:"room"`
	AttachmentURL string `json:"attachmentUrl,omitempty"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Message is the wire shape of a persisted message, shared by the push
// events and the REST responses.
type Message struct {
	ID            string    `json:"id"`
	User          string    `json:"user"`
	Text          string    `json:"text,omitempty"`
	Room          string    `json:"room"`
	AttachmentURL string    `json:"attachmentUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DeleteData identifies a deleted message. The body is gone by the time
// subscribers hear about it.
type DeleteData struct {
	ID   string `json:"id"`
	Room string `json:"room"`
}

// HistoryData replays a room's persisted messages to a joining client.
type HistoryData struct {
	Room     string    `json:"room"`
	Messages []Message `json:"messages"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

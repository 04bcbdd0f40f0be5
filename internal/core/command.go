package core

// CommandKind describes what a push-surface client wants to do.
type CommandKind int

const (
	// CommandJoinRoom subscribes the client to a room.
	CommandJoinRoom CommandKind = iota
	// CommandLeaveRoom unsubscribes the client from a room.
	CommandLeaveRoom
	// CommandSendMessage persists and fans out a chat message.
	CommandSendMessage
)

// Command represents an action requested by a connected client.
type Command struct {
	Kind     CommandKind
	Room     string
	Mutation Mutation // set for CommandSendMessage
}

// MutationKind describes a change to a room's message history.
type MutationKind int

const (
	// MutationCreate adds a new message.
	MutationCreate MutationKind = iota
	// MutationEdit replaces the text of an existing message.
	MutationEdit
	// MutationDelete removes a message permanently.
	MutationDelete
)

// Mutation is the single internal shape both entry surfaces converge on.
// Fields not relevant to a kind are left empty.
type Mutation struct {
	Kind          MutationKind
	ID            string // edit/delete target
	User          string
	Text          string
	Room          string
	AttachmentURL string
}

package core

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/roomcast/roomcast-server/internal/observability"
	"github.com/roomcast/roomcast-server/internal/store"
)

var validate = validator.New()

// createRules is the validated shape of a create mutation after
// sanitization. AttachmentURL must be a well-formed URL when present;
// reachability is never checked.
type createRules struct {
	User          string `validate:"required"`
	Room          string `validate:"required"`
	AttachmentURL string `validate:"omitempty,url"`
}

// applyMutation is the single path every mutation takes, regardless of
// which surface accepted it: sanitize, validate, persist, then fan out.
// A message is never broadcast before it is durable; a persisted message
// that reaches nobody is not rolled back.
func (h *Hub) applyMutation(ctx context.Context, m Mutation) (*store.Message, error) {
	switch m.Kind {
	case MutationCreate:
		return h.createMessage(ctx, m)
	case MutationEdit:
		return h.editMessage(ctx, m)
	case MutationDelete:
		return h.deleteMessage(ctx, m)
	default:
		return nil, coreError(ErrCodeBadRequest, "unknown mutation kind")
	}
}

func (h *Hub) createMessage(ctx context.Context, m Mutation) (*store.Message, error) {
	user := sanitize(m.User)
	text := sanitize(m.Text)
	roomName := sanitize(m.Room)
	attachment := strings.TrimSpace(m.AttachmentURL)

	if err := validate.Struct(createRules{User: user, Room: roomName, AttachmentURL: attachment}); err != nil {
		return nil, validationError(describeValidation(err))
	}
	if text == "" && attachment == "" {
		return nil, validationError("message requires text or an attachment")
	}

	msg, err := h.store.CreateMessage(ctx, user, text, roomName, attachment)
	if err != nil {
		h.log.Error().Err(err).Str("room", roomName).Msg("failed to persist message")
		return nil, err
	}

	observability.MessagesPersistedTotal.WithLabelValues("create").Inc()
	h.log.Info().Str("message_id", msg.ID).Str("room", msg.Room).Msg("message created")

	h.registry.Broadcast(msg.Room, &Event{Kind: EventMessageCreated, Room: msg.Room, Message: msg})
	return msg, nil
}

func (h *Hub) editMessage(ctx context.Context, m Mutation) (*store.Message, error) {
	if m.ID == "" {
		return nil, validationError("message id is required")
	}
	text := sanitize(m.Text)
	if text == "" {
		return nil, validationError("text is required")
	}

	msg, err := h.store.UpdateMessage(ctx, m.ID, text)
	if err != nil {
		return nil, err
	}

	observability.MessagesPersistedTotal.WithLabelValues("edit").Inc()
	h.log.Info().Str("message_id", msg.ID).Str("room", msg.Room).Msg("message edited")

	h.registry.Broadcast(msg.Room, &Event{Kind: EventMessageEdited, Room: msg.Room, Message: msg})
	return msg, nil
}

func (h *Hub) deleteMessage(ctx context.Context, m Mutation) (*store.Message, error) {
	if m.ID == "" {
		return nil, validationError("message id is required")
	}

	msg, err := h.store.DeleteMessage(ctx, m.ID)
	if err != nil {
		return nil, err
	}

	observability.MessagesPersistedTotal.WithLabelValues("delete").Inc()
	h.log.Info().Str("message_id", msg.ID).Str("room", msg.Room).Msg("message deleted")

	// The message body no longer exists; subscribers get only id and room.
	h.registry.Broadcast(msg.Room, &Event{Kind: EventMessageDeleted, Room: msg.Room, DeletedID: msg.ID})
	return msg, nil
}

// sanitize trims surrounding whitespace and escapes HTML so stored
// markup is inert when later rendered.
func sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return strings.ToLower(fe.Field()) + " is required"
		case "url":
			return "attachmentUrl must be a valid URL"
		}
	}
	return err.Error()
}

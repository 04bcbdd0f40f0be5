package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomcast/roomcast-server/internal/core"
)

// MessageHandlers is the request/response surface of the mutation
// gateway. Every mutation goes through the hub so fan-out order matches
// commit order.
type MessageHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(hub *core.Hub, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{hub: hub, log: logger}
}

// CreateMessageRequest represents the create message request body.
type CreateMessageRequest struct {
	User          string `json:"user" binding:"required"`
	Text          string `json:"text"`
	Room          string `json:"room" binding:"required"`
	AttachmentURL string `json:"attachmentUrl"`
}

// EditMessageRequest represents the edit message request body.
type EditMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateMessage handles message creation.
// POST /messages
func (h *MessageHandlers) CreateMessage(c *gin.Context) {
	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create message request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	msg, err := h.hub.Apply(c.Request.Context(), core.Mutation{
		Kind:          core.MutationCreate,
		User:          req.User,
		Text:          req.Text,
		Room:          req.Room,
		AttachmentURL: req.AttachmentURL,
	})
	if err != nil {
		h.respondError(c, err, "failed to create message")
		return
	}

	c.JSON(http.StatusCreated, wireFromMessage(msg))
}

// EditMessage handles message edits.
// PUT /messages/:id
func (h *MessageHandlers) EditMessage(c *gin.Context) {
	var req EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid edit message request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	msg, err := h.hub.Apply(c.Request.Context(), core.Mutation{
		Kind: core.MutationEdit,
		ID:   c.Param("id"),
		Text: req.Text,
	})
	if err != nil {
		h.respondError(c, err, "failed to edit message")
		return
	}

	c.JSON(http.StatusOK, wireFromMessage(msg))
}

// DeleteMessage handles message deletion.
// DELETE /messages/:id
func (h *MessageHandlers) DeleteMessage(c *gin.Context) {
	_, err := h.hub.Apply(c.Request.Context(), core.Mutation{
		Kind: core.MutationDelete,
		ID:   c.Param("id"),
	})
	if err != nil {
		h.respondError(c, err, "failed to delete message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// FetchHistory returns a room's messages in acceptance order.
// GET /messages/:room
func (h *MessageHandlers) FetchHistory(c *gin.Context) {
	room := c.Param("room")

	messages, err := h.hub.History(c.Request.Context(), room)
	if err != nil {
		h.log.Error().Err(err).Str("room", room).Msg("failed to fetch history")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "error fetching messages"})
		return
	}

	c.JSON(http.StatusOK, wireFromMessages(messages))
}

func (h *MessageHandlers) respondError(c *gin.Context, err error, logMsg string) {
	code := core.ErrorCode(err)
	status := statusForCode(code)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg(logMsg)
	} else {
		h.log.Debug().Err(err).Msg(logMsg)
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func statusForCode(code string) int {
	switch code {
	case core.ErrCodeValidation, core.ErrCodeBadRequest, core.ErrCodeUnsupported:
		return http.StatusBadRequest
	case core.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/kiranshivaraju/askbetter/internal/api/response"
	"github.com/kiranshivaraju/askbetter/internal/chat"
	"github.com/kiranshivaraju/askbetter/pkg/models"
)

// Conversation defines the chat log operations the handlers depend on.
type Conversation interface {
	Submit(text string) (*models.Message, error)
	Snapshot() models.ConversationView
}

// NewConversationHandler returns an http.HandlerFunc for GET /api/v1/conversation.
func NewConversationHandler(c Conversation) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, c.Snapshot())
	}
}

// NewSubmitHandler returns an http.HandlerFunc for POST /api/v1/conversation/messages.
// Whitespace-only content is ignored with a 204; the assistant reply is
// appended later and observed through the conversation endpoint.
func NewSubmitHandler(c Conversation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Content string `json:"content"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		msg, err := c.Submit(req.Content)
		if err != nil {
			switch {
			case errors.Is(err, chat.ErrEmptyMessage):
				response.NoContent(w)
			case errors.Is(err, chat.ErrBusy):
				response.Error(w, http.StatusConflict, "ASSISTANT_BUSY",
					"The assistant is still replying to the previous message", nil)
			case errors.Is(err, chat.ErrClosed):
				response.Error(w, http.StatusServiceUnavailable, "SHUTTING_DOWN",
					"The server is shutting down", nil)
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"An unexpected error occurred", nil)
			}
			return
		}

		response.Accepted(w, msg)
	}
}

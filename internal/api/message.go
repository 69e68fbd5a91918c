package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/interskill/internal/middleware"
	"github.com/lalith-99/interskill/internal/service"
	"go.uber.org/zap"
)

type MessageHandler struct {
	chat   *service.ChatService
	logger *zap.Logger
}

func NewMessageHandler(chat *service.ChatService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{chat: chat, logger: logger}
}

type createMessageRequest struct {
	Content   string `json:"content" binding:"required"`
	Recipient string `json:"recipient"`
}

// History handles GET /api/messages?room=general or ?userId=X
//
// room=general wins over userId. With neither, the general room is
// returned. At most 100 messages, oldest first.
func (h *MessageHandler) History(c *gin.Context) {
	scope := c.Query("userId")
	if c.Query("room") == service.ScopeGeneral {
		scope = service.ScopeGeneral
	}

	actor := middleware.GetActor(c)
	msgs, err := h.chat.History(c.Request.Context(), actor.ID, scope)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// Create handles POST /api/messages
//
// Persist-only fallback for when the live channel is down: the message is
// stored but not pushed to anyone. The sender is always the caller.
func (h *MessageHandler) Create(c *gin.Context) {
	var req createMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	actor := middleware.GetActor(c)
	msg, err := h.chat.SavePersistOnly(c.Request.Context(), service.SendInput{
		SenderID:   actor.ID,
		SenderName: actor.Name,
		Content:    req.Content,
		Recipient:  req.Recipient,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

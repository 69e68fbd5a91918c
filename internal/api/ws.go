package api

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lalith-99/interskill/internal/chat"
	"github.com/lalith-99/interskill/internal/middleware"
	"go.uber.org/zap"
)

// WSHandler upgrades authenticated requests to the live chat channel.
type WSHandler struct {
	hub      *chat.Hub
	chat     chat.Sender
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewWSHandler(hub *chat.Hub, sender chat.Sender, allowedOrigins []string, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		hub:  hub,
		chat: sender,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		logger: logger,
	}
}

// Serve handles GET /api/ws?token=JWT
//
// The token is checked by AuthMiddleware before the upgrade. The request
// blocks here for the life of the connection.
func (h *WSHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	chat.NewClient(h.hub, conn, middleware.GetActor(c), h.chat, h.logger).Serve(c.Request.Context())
}

// checkOrigin accepts requests without an Origin header (non-browser
// clients) and browsers from an allowed origin. "*" allows any.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, "*") {
			return true
		}
		return slices.Contains(allowed, origin)
	}
}

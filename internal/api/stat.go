package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/interskill/internal/service"
	"go.uber.org/zap"
)

type StatHandler struct {
	stats  *service.StatService
	logger *zap.Logger
}

func NewStatHandler(stats *service.StatService, logger *zap.Logger) *StatHandler {
	return &StatHandler{stats: stats, logger: logger}
}

type upsertStatRequest struct {
	Label string `json:"label" binding:"required"`
	Value string `json:"value" binding:"required"`
	Icon  string `json:"icon"`
}

// List handles GET /api/stats (public)
func (h *StatHandler) List(c *gin.Context) {
	stats, err := h.stats.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Upsert handles PUT /api/stats: 201 when the label is new, 200 otherwise.
func (h *StatHandler) Upsert(c *gin.Context) {
	var req upsertStatRequest
	if !bindJSON(c, &req) {
		return
	}

	stat, created, err := h.stats.Upsert(c.Request.Context(), req.Label, req.Value, req.Icon)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, stat)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/interskill/internal/service"
	"go.uber.org/zap"
)

type RequestHandler struct {
	requests *service.RequestService
	logger   *zap.Logger
}

func NewRequestHandler(requests *service.RequestService, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{requests: requests, logger: logger}
}

type createStaffRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Branch   string `json:"branch"`
	Password string `json:"password" binding:"required"`
}

// Create handles POST /api/requests (public)
func (h *RequestHandler) Create(c *gin.Context) {
	var req createStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.requests.Create(c.Request.Context(), service.RequestInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Branch:   req.Branch,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// List handles GET /api/requests
func (h *RequestHandler) List(c *gin.Context) {
	reqs, err := h.requests.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// Approve handles PUT /api/requests/:id/approve
func (h *RequestHandler) Approve(c *gin.Context) {
	msg, err := h.requests.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// Delete handles DELETE /api/requests/:id
func (h *RequestHandler) Delete(c *gin.Context) {
	if err := h.requests.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request removed"})
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/interskill/internal/middleware"
	"github.com/lalith-99/interskill/internal/service"
	"go.uber.org/zap"
)

type LeadHandler struct {
	leads  *service.LeadService
	logger *zap.Logger
}

func NewLeadHandler(leads *service.LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{leads: leads, logger: logger}
}

type createLeadRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone" binding:"required"`
	Interest string `json:"interest"`
	Source   string `json:"source" binding:"required"`
}

// updateLeadRequest fields are optional; absent means "leave unchanged".
type updateLeadRequest struct {
	Status *string `json:"status"`
	Remark *string `json:"remark"`
}

// Create handles POST /api/leads (public)
func (h *LeadHandler) Create(c *gin.Context) {
	var req createLeadRequest
	if !bindJSON(c, &req) {
		return
	}

	lead, err := h.leads.Create(c.Request.Context(), service.LeadInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Interest: req.Interest,
		Source:   req.Source,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}

// List handles GET /api/leads?view=deleted
//
// Only admins can see the trash. For everyone else the view parameter is
// ignored.
func (h *LeadHandler) List(c *gin.Context) {
	leads, err := h.leads.List(c.Request.Context(), middleware.GetActor(c), c.Query("view"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

// Get handles GET /api/leads/:id
func (h *LeadHandler) Get(c *gin.Context) {
	lead, err := h.leads.Get(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// Update handles PUT /api/leads/:id with {status?, remark?}
func (h *LeadHandler) Update(c *gin.Context) {
	var req updateLeadRequest
	if !bindJSON(c, &req) {
		return
	}

	var remark string
	if req.Remark != nil {
		remark = *req.Remark
	}
	lead, err := h.leads.UpdateStatusAndRemark(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req.Status, remark)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// Delete handles DELETE /api/leads/:id?type=permanent
func (h *LeadHandler) Delete(c *gin.Context) {
	permanent, err := h.leads.Delete(c.Request.Context(), middleware.GetActor(c), c.Param("id"), c.Query("type"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	msg := "Lead moved to trash"
	if permanent {
		msg = "Lead permanently deleted"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/interskill/internal/middleware"
	"github.com/lalith-99/interskill/internal/service"
	"go.uber.org/zap"
)

// CategoryHandler serves course categories. Listing is public, every
// change is admin only.
type CategoryHandler struct {
	categories *service.CategoryService
	logger     *zap.Logger
}

func NewCategoryHandler(categories *service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

type createCategoryRequest struct {
	Name     string `json:"name" binding:"required"`
	Priority int    `json:"priority"`
}

type updateCategoryRequest struct {
	Name     *string `json:"name"`
	Priority *int    `json:"priority"`
}

// List handles GET /api/categories (public)
func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.categories.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// Create handles POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req createCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	cat, err := h.categories.Create(c.Request.Context(), req.Name, req.Priority)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// Update handles PUT /api/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	var req updateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	cat, err := h.categories.Update(c.Request.Context(), c.Param("id"), service.CategoryPatch{
		Name:     req.Name,
		Priority: req.Priority,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// Delete handles DELETE /api/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category removed"})
}

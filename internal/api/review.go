package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/interskill/internal/middleware"
	"github.com/lalith-99/interskill/internal/service"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	reviews *service.ReviewService
	logger  *zap.Logger
}

func NewReviewHandler(reviews *service.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, logger: logger}
}

type createReviewRequest struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Review string `json:"review"`
	Rating *int   `json:"rating"`
	Image  string `json:"image"`
}

// reorderRequest is the list as the admin arranged it; only ids matter.
type reorderRequest struct {
	Reviews []struct {
		ID string `json:"_id"`
	} `json:"reviews"`
}

// List handles GET /api/reviews (public)
func (h *ReviewHandler) List(c *gin.Context) {
	reviews, err := h.reviews.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// Create handles POST /api/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	var req createReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), service.ReviewInput{
		Name:   req.Name,
		Role:   req.Role,
		Review: req.Review,
		Rating: req.Rating,
		Image:  req.Image,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// Reorder handles PUT /api/reviews/order
func (h *ReviewHandler) Reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, service.Validation("invalid data format"))
		return
	}

	var ids []string
	if req.Reviews != nil {
		ids = make([]string, 0, len(req.Reviews))
		for _, r := range req.Reviews {
			ids = append(ids, r.ID)
		}
	}
	if err := h.reviews.Reorder(c.Request.Context(), ids); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order updated successfully"})
}

// Delete handles DELETE /api/reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.reviews.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

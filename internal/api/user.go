package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/interskill/internal/middleware"
	"github.com/lalith-99/interskill/internal/service"
	"go.uber.org/zap"
)

// UserHandler serves staff management. Everything except the directory is
// admin only; the router enforces that.
type UserHandler struct {
	users  *service.UserService
	logger *zap.Logger
}

func NewUserHandler(users *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type registerStaffRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Branch   string `json:"branch"`
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// directoryEntry is the public subset of a user shown in the chat contact
// list.
type directoryEntry struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	FullName string `json:"fullName,omitempty"`
	Role     string `json:"role"`
	Branch   string `json:"branch,omitempty"`
}

// Register handles POST /api/auth/staff
func (h *UserHandler) Register(c *gin.Context) {
	var req registerStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.RegisterStaff(c.Request.Context(), service.StaffInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Branch:   req.Branch,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"_id":      user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

// Directory handles GET /api/auth/staff/list
func (h *UserHandler) Directory(c *gin.Context) {
	users, err := h.users.StaffDirectory(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	entries := make([]directoryEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, directoryEntry{
			ID:       u.ID,
			Username: u.Username,
			FullName: u.FullName,
			Role:     u.Role,
			Branch:   u.Branch,
		})
	}
	c.JSON(http.StatusOK, entries)
}

// List handles GET /api/auth/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateRole handles PUT /api/auth/users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req updateRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.users.UpdateRole(c.Request.Context(), c.Param("id"), req.Role); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User role updated"})
}

// Delete handles DELETE /api/auth/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User removed"})
}

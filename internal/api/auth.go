package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/interskill/internal/middleware"
	"github.com/lalith-99/interskill/internal/service"
	"go.uber.org/zap"
)

// AuthHandler serves login and the caller's own profile.
type AuthHandler struct {
	users  *service.UserService
	logger *zap.Logger
}

func NewAuthHandler(users *service.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, logger: logger}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Branch   string `json:"branch"`
	Password string `json:"password"`
}

// sessionResponse is the profile plus a fresh token. The console stores
// both after login and after a profile update.
type sessionResponse struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Branch   string `json:"branch"`
	Token    string `json:"token"`
	Message  string `json:"message,omitempty"`
}

func newSessionResponse(s *service.Session) sessionResponse {
	resp := sessionResponse{
		ID:       s.User.ID,
		Username: s.User.Username,
		Role:     s.User.Role,
		FullName: s.User.FullName,
		Email:    s.User.Email,
		Phone:    s.User.Phone,
		Branch:   s.User.Branch,
		Token:    s.Token,
	}
	if s.PendingApproval {
		resp.Message = "Password change request sent to Admin for approval."
	}
	return resp
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	sess, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(sess))
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	sess, err := h.users.UpdateProfile(c.Request.Context(), middleware.GetActor(c), service.ProfileInput{
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
	c.JSON(http.StatusOK, newSessionResponse(sess))
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/interskill/internal/auth"
	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/service"
)

// Context keys for the authenticated caller.
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
	ContextKeyName     = "name"
	ContextKeyRole     = "role"
)

// AccountLookup resolves the account a token was issued to. A missing
// account is (nil, nil).
type AccountLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AuthMiddleware validates the bearer token, reloads the account it names
// and stores the caller on the gin context. Requests without a valid token,
// or whose account no longer exists, stop here with 401.
//
// Role and name come from the stored account, not the token, so deletions
// and role changes apply to tokens already issued.
//
// The websocket endpoint cannot set headers from a browser, so a "token"
// query parameter is accepted when allowQuery is true.
func AuthMiddleware(secret string, allowQuery bool, accounts AccountLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok && allowQuery {
			tokenString = c.Query("token")
			ok = tokenString != ""
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "not authorized, no token",
			})
			return
		}

		claims, err := auth.ParseToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "not authorized, token failed",
			})
			return
		}

		user, err := accounts.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "internal server error",
			})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "not authorized, account not found",
			})
			return
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyUsername, user.Username)
		c.Set(ContextKeyName, user.DisplayName())
		c.Set(ContextKeyRole, user.Role)

		c.Next()
	}
}

// RequireRole lets the request through only when the caller's role is one
// of roles. Insufficient role is a 401, the same as a missing token.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextKeyRole)
		for _, r := range roles {
			if strings.EqualFold(role, r) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "not authorized for this action",
		})
	}
}

// GetActor returns the authenticated caller. Zero value outside
// AuthMiddleware.
func GetActor(c *gin.Context) service.Actor {
	name := c.GetString(ContextKeyName)
	if name == "" {
		name = c.GetString(ContextKeyUsername)
	}
	return service.Actor{
		ID:   c.GetString(ContextKeyUserID),
		Name: name,
		Role: c.GetString(ContextKeyRole),
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/interskill/internal/service"
	"go.uber.org/zap"
)

// statusFor maps a service error kind to its HTTP status. Conflict is a
// 400: the console treats "already deleted" as a bad request.
func statusFor(k service.Kind) int {
	switch k {
	case service.KindValidation, service.KindConflict:
		return http.StatusBadRequest
	case service.KindAuth:
		return http.StatusUnauthorized
	case service.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error": message}. Store failures are logged
// with their cause and reach the client as a generic message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		logger.Error("unhandled error", zap.String("route", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if se.Kind == service.KindStore {
		logger.Error("store failure", zap.String("route", c.FullPath()), zap.Error(se.Err))
	}
	c.JSON(statusFor(se.Kind), gin.H{"error": se.Message})
}

// bindJSON binds the request body and answers 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

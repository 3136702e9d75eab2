package handlers

import (
	"bookingcore/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the request logger tagged with the booking path parameter when present.
func getLogger(c *gin.Context) *zap.Logger {
	logger := utils.ContextLogger(c)
	if id := c.Param("id"); id != "" {
		return logger.With(zap.String("path_id", id))
	}
	return logger
}

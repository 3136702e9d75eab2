package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoggerKey is the gin context key holding the request-scoped logger.
const LoggerKey = "logger"

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ContextLogger returns the request-scoped logger, or the global one outside a request.
func ContextLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Get(LoggerKey); ok {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return GetLogger()
}

// ErrorHandler recovers handler panics into a 500 reply.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				ContextLogger(c).Error("Unhandled panic",
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Code:    "internalError",
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError aborts the request with an uncoded error body.
func JSONError(c *gin.Context, status int, message string, details string) {
	JSONCodedError(c, status, "", message, details)
}

// JSONCodedError aborts the request with a machine-readable code.
func JSONCodedError(c *gin.Context, status int, code, message, details string) {
	ContextLogger(c).Warn(message,
		zap.Int("status", status),
		zap.String("code", code),
		zap.String("details", details))
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: message, Details: details})
}

package middleware

import (
	"net/http"

	"github.com/erp/billing/internal/infrastructure/logger"
	"github.com/erp/billing/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BodyLimit returns a middleware that limits request body size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(dto.ErrorWithStatus(dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size", c.GetString(logger.RequestIDKey)))
			return
		}

		// Streaming bodies without a Content-Length fail on read instead
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

package middleware

import (
	"net/http"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/erp/billing/internal/infrastructure/logger"
	"github.com/erp/billing/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader is the request header naming a client-chosen retry key
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 255

// Idempotency rejects a replayed create request with 409 DUPLICATE_REQUEST.
// Keys are scoped by route. A request that fails releases its key so the
// client can retry with the same one. Requests without the header pass through,
// and so do requests whose key cannot be checked because the store is down.
func Idempotency(store shared.IdempotencyStore, cfg shared.IdempotencyConfig, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	if store == nil || !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		requestID := c.GetString(logger.RequestIDKey)
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(dto.ErrorWithStatus(
				dto.ErrCodeInvalidInput, "Idempotency-Key must be at most 255 characters", requestID))
			return
		}

		ctx := c.Request.Context()
		scoped := "http:" + c.Request.Method + ":" + c.FullPath() + ":" + key

		fresh, err := store.MarkProcessed(ctx, scoped, cfg.TTL)
		if err != nil {
			log.Warn("Idempotency check failed, processing request",
				zap.String("request_id", requestID),
				zap.Error(err))
			c.Next()
			return
		}
		if !fresh {
			log.Info("Rejected replayed request",
				zap.String("request_id", requestID),
				zap.String("route", c.FullPath()))
			c.AbortWithStatusJSON(dto.ErrorWithStatus(
				shared.ErrDuplicateRequest.Code, shared.ErrDuplicateRequest.Message, requestID))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Forget(ctx, scoped); err != nil {
				log.Warn("Failed to release idempotency key",
					zap.String("request_id", requestID),
					zap.Error(err))
			}
		}
	}
}

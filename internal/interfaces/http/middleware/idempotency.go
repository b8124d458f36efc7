package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ferreteria/backoffice/internal/domain/shared"
	"github.com/ferreteria/backoffice/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader carries the client-chosen key of a mutation
const IdempotencyKeyHeader = "Idempotency-Key"

// MaxIdempotencyKeyLength bounds the header value
const MaxIdempotencyKeyLength = 255

// Idempotency reserves the Idempotency-Key of POST requests before the handler
// runs. A key still reserved answers 409 IDEMPOTENCY_KEY_REUSED without running
// the mutation again. Keys of failed requests (status >= 400) are released so
// the client may retry. Requests without the header pass through.
//
// Keys are scoped by actor and path, so two cashiers or two endpoints never
// collide on the same client key.
func Idempotency(store shared.IdempotencyStore, cfg shared.IdempotencyConfig, logger *zap.Logger) gin.HandlerFunc {
	if !cfg.Enabled || store == nil {
		return passThrough
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}

	abort := func(c *gin.Context, code, message string) {
		c.AbortWithStatusJSON(dto.GetHTTPStatus(code),
			dto.NewErrorResponseWithRequestID(code, message, c.GetString(RequestIDKey)))
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		clientKey := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if clientKey == "" {
			c.Next()
			return
		}
		if len(clientKey) > MaxIdempotencyKeyLength {
			abort(c, dto.ErrCodeValidation, "Idempotency-Key must be at most 255 characters")
			return
		}

		key := c.GetString(ActorKey) + ":" + c.Request.URL.Path + ":" + clientKey
		ctx := c.Request.Context()

		reserved, err := store.Reserve(ctx, key, ttl)
		if err != nil {
			logger.Error("Idempotency key reservation failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			abort(c, dto.ErrCodeInternal, "An unexpected error occurred")
			return
		}
		if !reserved {
			abort(c, dto.ErrCodeIdempotencyUsed, "Idempotency-Key was already used for this request")
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Release(ctx, key); err != nil {
				logger.Warn("Idempotency key release failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			}
		}
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ferreteria/backoffice/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size. Declared
// oversize bodies are refused up front; streamed ones fail on read.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
				c.GetString(RequestIDKey),
			))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

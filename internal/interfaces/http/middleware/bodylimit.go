package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bizfin/backend/internal/interfaces/http/dto"
)

// BodyLimit caps the request body size. Requests declaring a larger
// Content-Length are rejected before reading; chunked bodies are capped
// by MaxBytesReader.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "Request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"horti-admin/internal/domain"
	resp "horti-admin/internal/transport/http/response"
)

// MaxBodyBytes bounds the request body to n bytes. A declared
// Content-Length over the limit is refused up front; chunked bodies fail
// on read with *http.MaxBytesError, which the action layer maps to 413.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	if n <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			resp.Abort(c, domain.WithStatus(http.StatusRequestEntityTooLarge, domain.CodePayloadTooLarge))
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

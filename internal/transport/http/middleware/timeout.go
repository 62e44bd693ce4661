package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"horti-admin/internal/domain"
	resp "horti-admin/internal/transport/http/response"
)

// Timeout puts a deadline on the request context; database calls observe it.
// A non-positive d disables it.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			resp.Abort(c, domain.WithStatus(http.StatusGatewayTimeout, domain.CodeTimeout))
		}
	}
}

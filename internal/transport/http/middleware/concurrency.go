package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"horti-admin/internal/domain"
	resp "horti-admin/internal/transport/http/response"
)

// ConcurrencyLimit caps in-flight requests to protect the database pool.
// Requests wait for a slot until their context ends.
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	if max <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			resp.Abort(c, domain.WithStatus(http.StatusServiceUnavailable, domain.CodeServerBusy))
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}

package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"horti-admin/internal/domain"
)

// Envelope is the body of every failed request.
type Envelope struct {
	StatusCode int      `json:"statusCode"`
	Error      string   `json:"error"`
	Message    []string `json:"message"`
}

// From maps any error onto the domain taxonomy. Context and body-limit
// failures get their own codes; everything unknown becomes a 500.
func From(err error) *domain.Error {
	var de *domain.Error
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &de):
		return de
	case errors.Is(err, context.DeadlineExceeded):
		return domain.WithStatus(http.StatusGatewayTimeout, domain.CodeTimeout)
	case errors.As(err, &tooLarge):
		return domain.WithStatus(http.StatusRequestEntityTooLarge, domain.CodePayloadTooLarge)
	}
	return domain.Internal(err)
}

func envelope(e *domain.Error) Envelope {
	msgs := e.Messages
	if len(msgs) == 0 {
		msgs = []string{domain.Message(e.Code)}
	}
	return Envelope{StatusCode: e.Status, Error: e.Code, Message: msgs}
}

// Error writes the envelope for err and records err on the context for the access log.
func Error(c *gin.Context, err error) {
	e := From(err)
	_ = c.Error(err)
	c.JSON(e.Status, envelope(e))
}

// Abort is Error for middleware: the remaining handlers are skipped.
func Abort(c *gin.Context, err error) {
	e := From(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(e.Status, envelope(e))
}

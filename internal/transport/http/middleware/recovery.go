package middleware

import (
	"fmt"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"horti-admin/internal/domain"
	resp "horti-admin/internal/transport/http/response"
)

// Recovery logs the panic with its stack and answers with a bare 500 envelope.
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, rec any) {
		resp.Abort(c, domain.Internal(fmt.Errorf("panic: %v", rec)))
	})
}

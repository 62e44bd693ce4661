package middleware

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"horti-admin/internal/core/auth"
	"horti-admin/internal/domain"
	resp "horti-admin/internal/transport/http/response"
)

const KeyActor = "actor"

// AuthJWT decodes the bearer token into a domain.Actor. With roles given,
// any other role is rejected with 403.
func AuthJWT(j *auth.JWTer, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, domain.Unauthorized(domain.CodeUnauthorized))
			return
		}
		actor, err := j.Parse(strings.TrimSpace(strings.TrimPrefix(ah, "Bearer ")))
		if err != nil {
			resp.Abort(c, domain.Unauthorized(domain.CodeUnauthorized))
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, actor.Role) {
			resp.Abort(c, domain.Forbidden())
			return
		}
		c.Set(KeyActor, actor)
		c.Next()
	}
}

// Actor returns the identity attached by AuthJWT.
func Actor(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(KeyActor)
	if !ok {
		return domain.Actor{}, false
	}
	a, ok := v.(domain.Actor)
	return a, ok
}

package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	wf "github.com/vendorlink/supplierflow/internal/domain/workflow"
)

const actorContextKey = "actor"

// actorMiddleware resolves the acting user from request headers. Upstream
// authentication is expected to have verified the identity; this layer only
// parses the resolved claims.
//
//	X-User-Id          user identifier
//	X-User-Role        single role name
//	X-User-Permissions comma-separated permission grants
func actorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := wf.Actor{
			UserID: c.GetHeader("X-User-Id"),
			Role:   c.GetHeader("X-User-Role"),
		}

		if raw := c.GetHeader("X-User-Permissions"); raw != "" {
			for _, p := range strings.Split(raw, ",") {
				if p = strings.TrimSpace(p); p != "" {
					actor.Permissions = append(actor.Permissions, p)
				}
			}
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// actorFromContext returns the actor resolved by actorMiddleware
func actorFromContext(c *gin.Context) wf.Actor {
	if v, ok := c.Get(actorContextKey); ok {
		if actor, ok := v.(wf.Actor); ok {
			return actor
		}
	}
	return wf.Actor{}
}

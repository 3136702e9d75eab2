package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ActorHeader carries the authenticated caller id set by the gateway.
const ActorHeader = "X-Actor-ID"

const actorKey = "actorID"

// RequireActor rejects requests without an actor id and stores it on the context.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader(ActorHeader))
		if actor == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Insufficient authorization"})
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorID returns the caller id stored by RequireActor.
func ActorID(c *gin.Context) string {
	return c.GetString(actorKey)
}

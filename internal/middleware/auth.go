// Package middleware carries the cross-cutting gin middleware: auth, request
// ids, logging, rate limiting and panic recovery.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/plantaohub/oncall-api/internal/handler"
	"github.com/plantaohub/oncall-api/internal/model"
)

// TokenVerifier resolves a bearer token to an actor.
type TokenVerifier interface {
	Verify(token string) (*model.Actor, error)
}

// Auth authenticates the request and stores the actor and raw token in the
// gin context.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid authorization header")
			return
		}
		token := parts[1]

		actor, err := verifier.Verify(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		actor.SourceIP = c.ClientIP()

		c.Set(handler.ActorKey, actor)
		c.Set(handler.TokenKey, token)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status": "error",
		"error":  message,
	})
}

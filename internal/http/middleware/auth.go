package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/resolvedesk/backend/internal/auth"
	"github.com/resolvedesk/backend/internal/lifecycle"
	"github.com/resolvedesk/backend/internal/models"
)

const actorKey = "actor"

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// Authenticate validates the Bearer token and stores the resulting actor on
// the request context.
func Authenticate(issuer auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortUnauthorized(c, "Missing bearer token")
			return
		}

		claims, err := issuer.Parse(token)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(actorKey, lifecycle.Actor{
			ID:            claims.Subject,
			Name:          claims.Name,
			Role:          claims.Role,
			EngineerLevel: claims.EngineerLevel,
		})
		c.Next()
	}
}

// RequireRole rejects authenticated requests whose actor has none of the
// given roles.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := MustActor(c)
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": gin.H{
				"code":    "PERMISSION_DENIED",
				"message": "Insufficient role for this operation",
			},
		})
	}
}

// MustActor returns the actor set by Authenticate. Only call it on routes
// behind that middleware.
func MustActor(c *gin.Context) lifecycle.Actor {
	v, _ := c.Get(actorKey)
	actor, _ := v.(lifecycle.Actor)
	return actor
}

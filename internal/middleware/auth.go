package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"realtime-service/internal/auth"
	"realtime-service/internal/models"
)

const identityContextKey = "identity"

// AuthMiddleware validates the Authorization header using the token verifier
// and stores the verified identity on the request context.
func AuthMiddleware(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(identityContextKey, identity)
		c.Set("userID", identity.ID)
		c.Next()
	}
}

// IdentityFromContext returns the verified identity stored by AuthMiddleware.
func IdentityFromContext(c *gin.Context) (models.UserIdentity, bool) {
	val, ok := c.Get(identityContextKey)
	if !ok {
		return models.UserIdentity{}, false
	}
	identity, ok := val.(models.UserIdentity)
	return identity, ok
}

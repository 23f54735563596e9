package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DevOnly blocks the endpoint outside development. Used for the direct
// user-provisioning endpoint.
func DevOnly(env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if env == "production" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "This endpoint is only available in development"})
			return
		}
		c.Next()
	}
}

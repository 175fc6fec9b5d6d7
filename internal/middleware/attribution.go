package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// userIDHeader is set by the authentication collaborator in front of this service.
// The core never authenticates; it only records attribution (createdBy/postedBy).
const userIDHeader = "X-User-ID"

// AttributionMiddleware extracts the acting user id from the request and stores it in the
// context for services to record. Requests without attribution are rejected.
func AttributionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			GetLoggerFromCtx(c.Request.Context()).Warn("Missing acting user header", "header", userIDHeader)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Acting user identity required"})
			return
		}

		c.Set(string(userIDKey), userID)
		ctx := context.WithValue(c.Request.Context(), userIDKey, userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

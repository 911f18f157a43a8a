package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const clientIDKey = "clientId"

// ClientID resolves the caller identity used for rate limiting and quotas.
// A cooperating front-end may send a stable X-Client-Id; otherwise the
// client IP is used.
func ClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader("X-Client-Id"))
		if id == "" {
			id = strings.TrimSpace(c.ClientIP())
		}
		c.Set(clientIDKey, id)
		c.Next()
	}
}

// ClientIDFromContext fetches the identity stored by ClientID middleware.
func ClientIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(clientIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

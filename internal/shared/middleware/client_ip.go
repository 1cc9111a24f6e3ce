package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/shared/utils"
)

type ctxKey string

const (
	ClientIPKey = "client_ip"

	clientIPCtxKey ctxKey = "client_ip"
)

// ClientIPMiddleware extracts the client IP address and injects it into both
// the gin context and the request context.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.ExtractClientIP(c)

		c.Set(ClientIPKey, clientIP)
		ctx := context.WithValue(c.Request.Context(), clientIPCtxKey, clientIP)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetClientIPFromContext retrieves the client IP from context
// Returns empty string if not found
func GetClientIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPCtxKey).(string); ok {
		return ip
	}
	return ""
}

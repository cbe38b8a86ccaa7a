package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"emotion-insight/internal/service"
)

// IngestRateLimitMiddleware frena clientes que envían observaciones en exceso.
// Sin limiter configurado deja pasar todo.
func IngestRateLimitMiddleware(limiter service.IngestRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		key := c.ClientIP()
		if claims, ok := GetClientClaims(c); ok && claims.ClientID != "" {
			key = claims.ClientID
		}
		if !limiter.Allow(key) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many observations"})
			c.Abort()
			return
		}
		c.Next()
	}
}
